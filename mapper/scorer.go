package mapper

import "math"

// Default scoring parameters.
const (
	DefaultStrengthBoost = 0.05
	DefaultMaxBoost      = 0.15
)

// Scorer turns a concept's base weight and its domain's signal strength into
// a confidence that the concept was expected.
//
//	confidence = clamp(weight + min(StrengthBoost*(strength-1), MaxBoost), 0, 1)
//
// rounded to two decimals. A domain triggered once scores exactly the base
// weight. Absence type plays no part: confidence measures expectation, not
// severity, so a deliberate absence never outscores an overlooked one.
type Scorer struct {
	StrengthBoost float64
	MaxBoost      float64
}

// DefaultScorer returns a Scorer with the default parameters.
func DefaultScorer() Scorer {
	return Scorer{StrengthBoost: DefaultStrengthBoost, MaxBoost: DefaultMaxBoost}
}

// Score computes the confidence for a concept of the given base weight whose
// domain matched strength distinct triggers.
func (s Scorer) Score(weight float64, strength int) float64 {
	boost := 0.0
	if strength > 1 {
		boost = math.Min(s.StrengthBoost*float64(strength-1), s.MaxBoost)
	}
	if boost < 0 {
		boost = 0
	}
	return clamp01(math.Round((weight+boost)*100) / 100)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
