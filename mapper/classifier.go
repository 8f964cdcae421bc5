package mapper

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/negspace/registry"
)

// sentenceBoundaryRe splits a statement into sentences. Terminal punctuation
// must be followed by whitespace so "v1.2" stays intact.
var sentenceBoundaryRe = regexp.MustCompile(`[.!?;]+\s+|\n+`)

// excerptMax bounds the statement excerpt quoted in a context string.
const excerptMax = 120

// Classifier decides whether a missing concept was scoped out on purpose.
//
// A sentence is a cue sentence when one of the registry's scope or exclusion
// cues matches it. A cue sentence that names one of a domain's triggers scopes
// out that domain. A scope cue sentence that names no trigger of any domain is
// a document-wide statement ("Phase 2 is intentionally omitted.") and scopes
// out every domain. An exclusion cue ("not covered") with no trigger in its
// sentence scopes out nothing. Without a cue the concept is Overlooked.
type Classifier struct {
	reg *registry.Registry
}

// NewClassifier creates a classifier over reg.
func NewClassifier(reg *registry.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// Classify returns the absence type and context for a concept missing from
// text. sig is the signal of the concept's domain.
func (c *Classifier) Classify(text string, concept registry.Concept, sig Signal) (AbsenceType, string) {
	return c.classify(c.scopes(text), concept, sig)
}

// scopes maps each scoped-out domain to the cue sentence that scoped it. The
// empty key holds the first document-wide cue sentence, if any.
func (c *Classifier) scopes(text string) map[string]string {
	scopeCues := c.reg.ScopeCues()
	exclusionCues := c.reg.ExclusionCues()
	domains := c.reg.Domains()
	out := make(map[string]string)

	for _, sentence := range splitSentences(text) {
		explicit := matchesAny(scopeCues, sentence)
		if !explicit && !matchesAny(exclusionCues, sentence) {
			continue
		}

		named := false
		for _, d := range domains {
			if !triggered(d, sentence) {
				continue
			}
			named = true
			if _, ok := out[d.ID]; !ok {
				out[d.ID] = sentence
			}
		}
		if !named && explicit {
			if _, ok := out[""]; !ok {
				out[""] = sentence
			}
		}
	}
	return out
}

func (c *Classifier) classify(scopes map[string]string, concept registry.Concept, sig Signal) (AbsenceType, string) {
	ctx := expectationContext(concept.Domain, sig)

	cue, ok := scopes[concept.Domain]
	if !ok {
		cue, ok = scopes[""]
	}
	if !ok {
		return Overlooked, ctx
	}
	return Deliberate, fmt.Sprintf("%s; scoped out by %q", ctx, excerpt(cue))
}

// expectationContext states which domain expected the concept and which
// signals activated it. Signals are quoted so the compliance check treats
// them as statement text.
func expectationContext(domain string, sig Signal) string {
	quoted := make([]string, len(sig.Matched))
	for i, m := range sig.Matched {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return fmt.Sprintf("expected for %s statements (signals: %s)", domain, strings.Join(quoted, ", "))
}

func splitSentences(text string) []string {
	parts := sentenceBoundaryRe.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(cues []registry.Cue, s string) bool {
	for _, c := range cues {
		if c.MatchString(s) {
			return true
		}
	}
	return false
}

func triggered(d registry.Domain, s string) bool {
	for _, t := range d.Triggers {
		if t.MatchString(s) {
			return true
		}
	}
	return false
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= excerptMax {
		return s
	}
	cut := strings.LastIndex(s[:excerptMax], " ")
	if cut <= 0 {
		cut = excerptMax
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return s[:cut] + "..."
}
