package parse

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// ParseLenient runs span through jsonrepair, which also fixes unquoted keys,
// single-quoted strings, missing commas and unterminated objects, and parses
// the result strictly. This tier is only part of a pipeline built with
// WithLenientRepair. On failure a LenientParseFailed *RecoveryError is
// returned, carrying the repaired text when there is one.
func ParseLenient(span string) (Record, string, error) {
	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		return nil, span, newRecoveryError(LenientParseFailed, span, fmt.Errorf("jsonrepair: %w", err))
	}

	rec, err := decodeObject(repaired)
	if err != nil {
		return nil, repaired, newRecoveryError(LenientParseFailed, repaired, err)
	}
	return rec, repaired, nil
}
