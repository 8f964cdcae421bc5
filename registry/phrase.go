package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// inflectionMinLen is the shortest single word that also matches its plain
// inflections. Shorter words ("ai", "app", "log") match only as written so
// that "ai" does not fire on "aid".
const inflectionMinLen = 4

// Phrase is a compiled presence or trigger phrase.
//
// Matching is case-insensitive and anchored on word boundaries. A single word
// of at least inflectionMinLen letters also matches with an s, es, d, ed,
// ing or ly suffix; one ending in a consonant and y matches ies, ied and
// ying instead ("retry" matches "retries"). Multi-word phrases match with any
// run of whitespace between the words.
type Phrase struct {
	text string
	re   *regexp.Regexp
}

// NewPhrase compiles a phrase.
func NewPhrase(text string) (Phrase, error) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return Phrase{}, fmt.Errorf("%w: empty phrase", ErrInvalid)
	}

	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	last := words[len(words)-1]
	if len(words) == 1 && len(last) >= inflectionMinLen && isWordByte(last[len(last)-1]) {
		quoted[0] = inflected(last)
	}
	body := strings.Join(quoted, `\s+`)

	pattern := `(?i)`
	if isWordByte(words[0][0]) {
		pattern += `\b`
	}
	pattern += body
	if isWordByte(last[len(last)-1]) {
		pattern += `\b`
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Phrase{}, fmt.Errorf("%w: phrase %q: %v", ErrInvalid, text, err)
	}
	return Phrase{text: strings.Join(words, " "), re: re}, nil
}

// String returns the normalized phrase text.
func (p Phrase) String() string {
	return p.text
}

// MatchString reports whether the phrase occurs in text.
func (p Phrase) MatchString(text string) bool {
	return p.re != nil && p.re.MatchString(text)
}

// Cue is a compiled scope-exclusion pattern. Unlike a Phrase, a cue is a
// regular expression, so "phase \d+ only" style statements can be expressed.
type Cue struct {
	pattern string
	re      *regexp.Regexp
}

// NewCue compiles a cue pattern. Matching is case-insensitive.
func NewCue(pattern string) (Cue, error) {
	if strings.TrimSpace(pattern) == "" {
		return Cue{}, fmt.Errorf("%w: empty scope cue", ErrInvalid)
	}
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return Cue{}, fmt.Errorf("%w: scope cue %q: %v", ErrInvalid, pattern, err)
	}
	return Cue{pattern: pattern, re: re}, nil
}

// String returns the source pattern.
func (c Cue) String() string {
	return c.pattern
}

// MatchString reports whether the cue occurs in text.
func (c Cue) MatchString(text string) bool {
	return c.re != nil && c.re.MatchString(text)
}

func inflected(word string) string {
	n := len(word)
	if word[n-1] == 'y' && !strings.ContainsRune("aeiouy", rune(word[n-2])) {
		return regexp.QuoteMeta(word[:n-1]) + `(?:y|ies|ied|ying)`
	}
	return regexp.QuoteMeta(word) + `(?:s|es|d|ed|ing|ly)?`
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
