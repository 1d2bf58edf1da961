package parse

import (
	"regexp"
	"strings"
)

// pairPattern matches "key": "value" where both sides may contain escaped
// quotes. Keys must be non-empty and single-line.
var pairPattern = regexp.MustCompile(`"((?:[^"\\\n]|\\.)+)"\s*:\s*"((?:[^"\\]|\\.)*)"`)

var pairUnescaper = strings.NewReplacer(
	`\\`, `\`,
	`\"`, `"`,
	`\n`, "\n",
	`\t`, "\t",
)

// Reconstruct extracts every "key": "value" pair from span regardless of the
// surrounding structure and assembles a flat Record of strings from them.
// Later occurrences of a key overwrite earlier ones. Numbers, booleans and
// arrays are never recovered by this tier. When nothing matches, a
// ReconstructionFailed *RecoveryError is returned.
func Reconstruct(span string) (Record, error) {
	matches := pairPattern.FindAllStringSubmatch(span, -1)
	if len(matches) == 0 {
		return nil, newRecoveryError(ReconstructionFailed, span, nil)
	}

	rec := make(Record, len(matches))
	for _, m := range matches {
		rec[unescapePair(m[1])] = unescapePair(m[2])
	}
	return rec, nil
}

func unescapePair(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return pairUnescaper.Replace(s)
}
