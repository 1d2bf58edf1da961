package parse

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

var (
	errNotObject    = errors.New("top-level value is not an object")
	errTrailingData = errors.New("unexpected data after top-level object")
)

// ParseStrict parses span as standard JSON without modification. The
// top-level value must be an object and nothing but whitespace may follow it.
// On failure a StrictParseFailed *RecoveryError carrying span is returned.
func ParseStrict(span string) (Record, error) {
	rec, err := decodeObject(span)
	if err != nil {
		return nil, newRecoveryError(StrictParseFailed, span, err)
	}
	return rec, nil
}

func decodeObject(text string) (Record, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	return toRecord(obj), nil
}
