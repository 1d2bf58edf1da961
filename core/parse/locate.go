package parse

import "strings"

// LocateObject returns the candidate span holding the first JSON object in
// text: from the first '{' to its matching '}'. Braces inside quoted literals
// do not count. When the object is never closed (truncated output) the span
// runs to the end of text. If text contains no '{' at all, a NoJSONFound
// *RecoveryError is returned.
func LocateObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", newRecoveryError(NoJSONFound, text, nil)
	}

	depth := 0
	var quote byte // delimiter of the literal being scanned, 0 outside literals
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"':
			quote = c
		case '\'':
			if opensSingleQuoted(text[start:i]) {
				quote = c
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return text[start:], nil
}

// opensSingleQuoted reports whether a single quote following prefix starts a
// literal rather than being an apostrophe inside a bare word.
func opensSingleQuoted(prefix string) bool {
	if prefix == "" {
		return true
	}
	switch prefix[len(prefix)-1] {
	case '{', '[', ',', ':', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
