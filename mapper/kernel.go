package mapper

import (
	"fmt"
	"regexp"
	"strings"
)

// quotedSpanRe matches double-quoted spans. Quoted spans in a context string
// are excerpts of the statement, not generated text, and are not checked.
var quotedSpanRe = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)

// prescriptiveMarkers are phrasings that propose a fix instead of naming a
// void. Generated text must never contain them.
var prescriptiveMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bshould\s+(?:implement|add|include|introduce|use|adopt|define|consider|create|establish)\b`),
	regexp.MustCompile(`(?i)\b(?:we\s+|i\s+)?recommend(?:s|ed|ing)?\b`),
	regexp.MustCompile(`(?i)\bconsider\s+(?:adding|implementing|using|introducing)\b`),
	regexp.MustCompile(`(?i)\bfix\s+(?:it\s+|this\s+)?by\b`),
	regexp.MustCompile(`(?i)\b(?:you|we|they)\s+(?:must|need\s+to|should|ought\s+to)\b`),
	regexp.MustCompile(`(?i)\bmake\s+sure\s+to\b`),
	regexp.MustCompile(`(?i)\bremediat(?:e|es|ed|ing|ion)\b`),
	regexp.MustCompile(`(?i)\bsuggest(?:s|ed|ion)?\b`),
	regexp.MustCompile(`(?i)\bto\s+resolve\s+this\b`),
	regexp.MustCompile(`(?i)\b(?:add|implement|introduce)\s+(?:a|an|the)\b`),
}

// CheckText returns the first prescriptive fragment found in s, outside
// quoted spans. ok is true when s is purely descriptive.
func CheckText(s string) (fragment string, ok bool) {
	unquoted := quotedSpanRe.ReplaceAllString(s, `""`)
	for _, re := range prescriptiveMarkers {
		if m := re.FindString(unquoted); m != "" {
			return strings.TrimSpace(m), false
		}
	}
	return "", true
}

// CheckCompliance verifies that no absence context proposes a remedy. It
// returns the violation description for the first offending absence.
func CheckCompliance(absences []Absence) (bool, string) {
	for _, a := range absences {
		if frag, ok := CheckText(a.Context); !ok {
			return false, fmt.Sprintf("absence %q context contains prescriptive phrasing %q", a.Name, frag)
		}
	}
	return true, ""
}
