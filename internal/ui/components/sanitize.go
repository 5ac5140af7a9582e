package components

import (
	"regexp"
	"strings"
	"unicode"
)

// CSI and OSC escape sequences.
var escapePattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// SanitizeText strips escape sequences, control characters and bidi
// overrides from user data before it is drawn. Newlines and tabs survive.
func SanitizeText(input string) string {
	if input == "" {
		return input
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.Is(unicode.Bidi_Control, r), unicode.IsControl(r):
			return -1
		}
		return r
	}, escapePattern.ReplaceAllString(input, ""))
}

// SanitizeOneLine is SanitizeText with line breaks and tabs folded to spaces.
func SanitizeOneLine(input string) string {
	return strings.Join(strings.Fields(SanitizeText(input)), " ")
}
