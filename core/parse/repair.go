package parse

import (
	"fmt"
	"strings"
)

// Repair applies the heuristic rewrites to span, in order:
//
//  1. raw control characters inside string literals are escaped
//     (newline, carriage return and tab get their short forms);
//  2. backslashes inside string literals that do not start a standard
//     escape sequence are doubled;
//  3. commas directly before a closing '}' or ']' are removed.
//
// Repair is idempotent: Repair(Repair(s)) == Repair(s).
func Repair(span string) string {
	out := escapeControlChars(span)
	out = escapeStrayBackslashes(out)
	out = removeTrailingCommas(out)
	return out
}

// ParseHeuristic repairs span and parses the result strictly. It returns the
// repaired text alongside the record so callers can log what was parsed. On
// failure a HeuristicParseFailed *RecoveryError carrying the repaired text is
// returned.
func ParseHeuristic(span string) (Record, string, error) {
	repaired := Repair(span)
	rec, err := decodeObject(repaired)
	if err != nil {
		return nil, repaired, newRecoveryError(HeuristicParseFailed, repaired, err)
	}
	return rec, repaired, nil
}

func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\\':
			if i+1 < len(s) && !isControl(s[i+1]) {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
				continue
			}
			// A backslash in front of a raw control character (or at the very
			// end) is literal; the control character is escaped next round.
			b.WriteString(`\\`)
		case isControl(c):
			b.WriteString(controlEscape(c))
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func escapeStrayBackslashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = false
			b.WriteByte(c)
		case '\\':
			if validEscapeAt(s, i+1) {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
				continue
			}
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func removeTrailingCommas(s string) string {
	for {
		out, changed := removeTrailingCommasOnce(s)
		if !changed {
			return out
		}
		s = out
	}
}

func removeTrailingCommasOnce(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	changed := false
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			if closesAfterWhitespace(s, i+1) {
				changed = true
				continue
			}
		}
		b.WriteByte(c)
	}

	return b.String(), changed
}

func closesAfterWhitespace(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}

// validEscapeAt reports whether s[i:] starts with the character(s) that may
// follow a backslash in standard JSON.
func validEscapeAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if i+4 >= len(s) {
			return false
		}
		for _, h := range []byte(s[i+1 : i+5]) {
			if !isHex(h) {
				return false
			}
		}
		return true
	}
	return false
}

func isControl(c byte) bool {
	return c < 0x20
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func controlEscape(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	}
	return fmt.Sprintf(`\u%04x`, c)
}
