package mapper

import (
	"github.com/c360studio/negspace/registry"
)

// Detect returns the domains the text triggers, in registration order.
// One matched trigger is enough to activate a domain; Strength counts the
// distinct triggers matched. Empty or signal-free text yields no signals.
func Detect(reg *registry.Registry, text string) []Signal {
	if text == "" {
		return nil
	}

	var signals []Signal
	for _, d := range reg.Domains() {
		var matched []string
		for _, trig := range d.Triggers {
			if trig.MatchString(text) {
				matched = append(matched, trig.String())
			}
		}
		if len(matched) == 0 {
			continue
		}
		signals = append(signals, Signal{
			Domain:   d.ID,
			Strength: len(matched),
			Matched:  matched,
		})
	}
	return signals
}

// present reports whether any of the concept's phrases occur in text.
func present(text string, c registry.Concept) bool {
	for _, p := range c.Phrases {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
