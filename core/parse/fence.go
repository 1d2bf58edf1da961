package parse

import (
	"strings"
	"unicode"
)

const fence = "```"

// StripFences removes one leading markdown code fence (with its optional
// language tag, e.g. ```json) and one trailing fence, then trims surrounding
// whitespace. Text without fences is returned trimmed.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(text, fence); ok {
		text = strings.TrimLeftFunc(rest, isFenceTagRune)
	}

	text = strings.TrimSpace(text)
	text, _ = strings.CutSuffix(text, fence)

	return strings.TrimSpace(text)
}

// isFenceTagRune matches the characters of a language hint such as json,
// c++, objective-c or shell_session.
func isFenceTagRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '+', '-', '_', '.', '#':
		return true
	}
	return false
}
