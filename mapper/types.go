package mapper

// AbsenceType classifies why an expected concept is missing.
type AbsenceType string

const (
	// Deliberate marks a concept the statement explicitly scoped out.
	Deliberate AbsenceType = "deliberate"
	// Overlooked is the default: nothing in the statement accounts for the gap.
	Overlooked AbsenceType = "overlooked"
)

// Absence is one named void in a statement.
type Absence struct {
	Name       string      `json:"name"`
	Type       AbsenceType `json:"type"`
	Context    string      `json:"context"`
	Confidence float64     `json:"confidence"`

	// Domain is the domain whose expectation produced the absence. It is not
	// part of the rendered result.
	Domain string `json:"-"`
}

// MappingResult is the outcome of one Map call.
type MappingResult struct {
	// Statement is the input text, verbatim.
	Statement string
	// Absences are ordered by domain registration, then concept registration.
	Absences []Absence
	// KernelCompliant is false when any generated text carries prescriptive
	// phrasing.
	KernelCompliant bool
	// Violation describes the offending fragment. Empty when compliant.
	Violation string
}

// Names returns the absence names in result order.
func (r *MappingResult) Names() []string {
	names := make([]string, len(r.Absences))
	for i, a := range r.Absences {
		names[i] = a.Name
	}
	return names
}

// Signal is one active domain and how strongly the statement triggered it.
type Signal struct {
	Domain string
	// Strength is the number of distinct triggers matched. Always >= 1.
	Strength int
	// Matched lists the triggers that fired, in registration order.
	Matched []string
}
