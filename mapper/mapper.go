// Package mapper names the concepts a statement conspicuously leaves out.
//
// Given a short planning or design statement, the mapper detects which
// domains the statement belongs to, looks up what a statement in those
// domains is expected to mention, and reports each expected concept the text
// never names. It reports what is missing, never what to do about it: every
// result is checked for prescriptive phrasing before it is returned.
//
// Map is a single linear pass (detect, gather candidates, classify, score,
// check compliance) with no state kept between calls. A Mapper is safe for
// concurrent use.
package mapper

import (
	"log/slog"

	"github.com/c360studio/negspace/registry"
)

// Mapper is the engine entry point.
type Mapper struct {
	reg        *registry.Registry
	classifier *Classifier
	scorer     Scorer
	metrics    *Metrics
	logger     *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithScorer overrides the default scoring parameters.
func WithScorer(s Scorer) Option {
	return func(m *Mapper) { m.scorer = s }
}

// WithMetrics records every mapping on metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Mapper) { m.metrics = metrics }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) { m.logger = logger }
}

// New creates a Mapper over reg. A nil registry selects registry.Default().
func New(reg *registry.Registry, opts ...Option) *Mapper {
	if reg == nil {
		reg = registry.Default()
	}
	m := &Mapper{
		reg:    reg,
		scorer: DefaultScorer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.classifier = NewClassifier(reg)
	return m
}

// Registry returns the registry the mapper runs on.
func (m *Mapper) Registry() *registry.Registry {
	return m.reg
}

// Map analyzes text and returns its named voids. It accepts any input,
// including the empty string, and always returns a result.
func (m *Mapper) Map(text string) *MappingResult {
	result := &MappingResult{
		Statement: text,
		Absences:  []Absence{},
	}

	signals := Detect(m.reg, text)
	if len(signals) > 0 {
		scopes := m.classifier.scopes(text)
		// A concept name shared by several active domains is judged once, by
		// the first domain that expects it.
		seen := make(map[string]bool)

		for _, sig := range signals {
			for _, concept := range m.reg.ConceptsFor(sig.Domain) {
				if seen[concept.Name] {
					continue
				}
				seen[concept.Name] = true
				if present(text, concept) {
					continue
				}

				kind, ctx := m.classifier.classify(scopes, concept, sig)
				result.Absences = append(result.Absences, Absence{
					Name:       concept.Name,
					Type:       kind,
					Context:    ctx,
					Confidence: m.scorer.Score(concept.Weight, sig.Strength),
					Domain:     sig.Domain,
				})
			}
		}
	}

	result.KernelCompliant, result.Violation = CheckCompliance(result.Absences)

	m.metrics.observe(signals, result)
	m.logger.Debug("Mapped statement",
		"domains", len(signals),
		"absences", len(result.Absences),
		"kernel_compliant", result.KernelCompliant)

	return result
}

var defaultMapper = New(nil)

// Map analyzes text with the built-in registry and default scoring.
func Map(text string) *MappingResult {
	return defaultMapper.Map(text)
}
