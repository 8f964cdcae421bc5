// Package registry holds the declarative tables the absence mapper runs on:
// which phrases signal a domain, and which concepts a statement in that
// domain is expected to mention.
//
// Tables are data. Adding a domain is a change to DefaultSpec or to a YAML
// registry file, never to the mapper. A Registry is immutable once built and
// may be shared by any number of goroutines.
package registry

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalid is returned (wrapped) for any malformed registry definition.
var ErrInvalid = errors.New("invalid registry")

// Spec is the uncompiled form of a registry, as written in YAML.
//
// ScopeCues are explicit scoping statements and may apply to the whole
// document. ExclusionCues only apply to domains triggered in the same
// sentence.
type Spec struct {
	Version       string       `yaml:"version" json:"version"`
	ScopeCues     []string     `yaml:"scope_cues,omitempty" json:"scope_cues,omitempty"`
	ExclusionCues []string     `yaml:"exclusion_cues,omitempty" json:"exclusion_cues,omitempty"`
	Domains       []DomainSpec `yaml:"domains" json:"domains"`
}

// DomainSpec describes one domain and its expected concepts.
type DomainSpec struct {
	ID       string        `yaml:"id" json:"id"`
	Triggers []string      `yaml:"triggers" json:"triggers"`
	Concepts []ConceptSpec `yaml:"concepts" json:"concepts"`
}

// ConceptSpec describes one expected concept.
type ConceptSpec struct {
	Name    string   `yaml:"name" json:"name"`
	Weight  float64  `yaml:"weight" json:"weight"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// Domain is a compiled domain.
type Domain struct {
	ID       string
	Triggers []Phrase
	Concepts []Concept
}

// Concept is a compiled expected concept. It belongs to exactly one domain.
type Concept struct {
	Name    string
	Domain  string
	Phrases []Phrase
	// Weight is the base confidence in [0,1] that the concept was expected.
	Weight float64
}

// Registry is the compiled, read-only domain and concept table.
type Registry struct {
	version       string
	domains       []Domain
	index         map[string]int
	scopeCues     []Cue
	exclusionCues []Cue
}

// New compiles and validates a Spec. An empty ScopeCues list selects
// DefaultScopeCues and an empty ExclusionCues list selects
// DefaultExclusionCues.
func New(spec Spec) (*Registry, error) {
	if len(spec.Domains) == 0 {
		return nil, fmt.Errorf("%w: no domains defined", ErrInvalid)
	}

	r := &Registry{
		version: spec.Version,
		domains: make([]Domain, 0, len(spec.Domains)),
		index:   make(map[string]int, len(spec.Domains)),
	}

	for _, ds := range spec.Domains {
		d, err := compileDomain(ds)
		if err != nil {
			return nil, err
		}
		if _, dup := r.index[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate domain %q", ErrInvalid, d.ID)
		}
		r.index[d.ID] = len(r.domains)
		r.domains = append(r.domains, d)
	}

	var err error
	if r.scopeCues, err = compileCues(spec.ScopeCues, DefaultScopeCues); err != nil {
		return nil, err
	}
	if r.exclusionCues, err = compileCues(spec.ExclusionCues, DefaultExclusionCues); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNew is like New but panics on error. It is meant for tables compiled
// into the binary.
func MustNew(spec Spec) *Registry {
	r, err := New(spec)
	if err != nil {
		panic(err)
	}
	return r
}

func compileCues(patterns []string, defaults func() []string) ([]Cue, error) {
	if len(patterns) == 0 {
		patterns = defaults()
	}
	cues := make([]Cue, 0, len(patterns))
	for _, pattern := range patterns {
		c, err := NewCue(pattern)
		if err != nil {
			return nil, err
		}
		cues = append(cues, c)
	}
	return cues, nil
}

func compileDomain(ds DomainSpec) (Domain, error) {
	if ds.ID == "" {
		return Domain{}, fmt.Errorf("%w: domain with empty id", ErrInvalid)
	}
	if len(ds.Triggers) == 0 {
		return Domain{}, fmt.Errorf("%w: domain %q has no triggers", ErrInvalid, ds.ID)
	}

	d := Domain{ID: ds.ID}
	for _, t := range ds.Triggers {
		p, err := NewPhrase(t)
		if err != nil {
			return Domain{}, fmt.Errorf("domain %q trigger: %w", ds.ID, err)
		}
		d.Triggers = append(d.Triggers, p)
	}

	seen := make(map[string]bool, len(ds.Concepts))
	for _, cs := range ds.Concepts {
		if cs.Name == "" {
			return Domain{}, fmt.Errorf("%w: domain %q has a concept with empty name", ErrInvalid, ds.ID)
		}
		if seen[cs.Name] {
			return Domain{}, fmt.Errorf("%w: domain %q repeats concept %q", ErrInvalid, ds.ID, cs.Name)
		}
		seen[cs.Name] = true
		if cs.Weight < 0 || cs.Weight > 1 {
			return Domain{}, fmt.Errorf("%w: concept %q weight %v outside [0,1]", ErrInvalid, cs.Name, cs.Weight)
		}
		if len(cs.Phrases) == 0 {
			return Domain{}, fmt.Errorf("%w: concept %q has no phrases", ErrInvalid, cs.Name)
		}

		c := Concept{Name: cs.Name, Domain: ds.ID, Weight: cs.Weight}
		for _, text := range cs.Phrases {
			p, err := NewPhrase(text)
			if err != nil {
				return Domain{}, fmt.Errorf("concept %q phrase: %w", cs.Name, err)
			}
			c.Phrases = append(c.Phrases, p)
		}
		d.Concepts = append(d.Concepts, c)
	}

	return d, nil
}

// Version returns the registry version label.
func (r *Registry) Version() string {
	return r.version
}

// Domains returns the domains in registration order. The returned slice is a
// copy; mutating it does not affect the registry.
func (r *Registry) Domains() []Domain {
	out := make([]Domain, len(r.domains))
	for i, d := range r.domains {
		out[i] = Domain{
			ID:       d.ID,
			Triggers: slices.Clone(d.Triggers),
			Concepts: cloneConcepts(d.Concepts),
		}
	}
	return out
}

// Domain returns the domain with the given id.
func (r *Registry) Domain(id string) (Domain, bool) {
	i, ok := r.index[id]
	if !ok {
		return Domain{}, false
	}
	d := r.domains[i]
	return Domain{ID: d.ID, Triggers: slices.Clone(d.Triggers), Concepts: cloneConcepts(d.Concepts)}, true
}

// ConceptsFor returns the concepts of a domain in registration order, or nil
// for an unknown domain.
func (r *Registry) ConceptsFor(id string) []Concept {
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return cloneConcepts(r.domains[i].Concepts)
}

// ScopeCues returns the compiled explicit scoping cues.
func (r *Registry) ScopeCues() []Cue {
	return slices.Clone(r.scopeCues)
}

// ExclusionCues returns the compiled generic exclusion cues.
func (r *Registry) ExclusionCues() []Cue {
	return slices.Clone(r.exclusionCues)
}

// Spec returns the registry in its uncompiled form, suitable for Marshal.
// Phrases come back normalized to lower case with single spaces.
func (r *Registry) Spec() Spec {
	spec := Spec{
		Version:       r.version,
		ScopeCues:     cuePatterns(r.scopeCues),
		ExclusionCues: cuePatterns(r.exclusionCues),
		Domains:       make([]DomainSpec, len(r.domains)),
	}
	for i, d := range r.domains {
		ds := DomainSpec{ID: d.ID, Triggers: phraseTexts(d.Triggers)}
		for _, c := range d.Concepts {
			ds.Concepts = append(ds.Concepts, ConceptSpec{
				Name:    c.Name,
				Weight:  c.Weight,
				Phrases: phraseTexts(c.Phrases),
			})
		}
		spec.Domains[i] = ds
	}
	return spec
}

func cuePatterns(cues []Cue) []string {
	out := make([]string, len(cues))
	for i, c := range cues {
		out[i] = c.String()
	}
	return out
}

func phraseTexts(phrases []Phrase) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = p.String()
	}
	return out
}

func cloneConcepts(in []Concept) []Concept {
	out := make([]Concept, len(in))
	for i, c := range in {
		c.Phrases = slices.Clone(c.Phrases)
		out[i] = c
	}
	return out
}
