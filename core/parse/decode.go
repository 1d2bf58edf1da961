package parse

import (
	"context"
	"encoding/json"
	"fmt"
)

// Decode converts a recovered record into T through its JSON form, so the
// usual `json` struct tags apply.
//
// Example usage:
//
//	type Translation struct {
//	    Python string `json:"python"`
//	}
//
//	res, err := parse.Recover(raw, parse.Strings("python"))
//	if err != nil {
//	    return err
//	}
//	tr, err := parse.Decode[Translation](res.Record)
func Decode[T any](rec Record) (T, error) {
	var result T

	data, err := json.Marshal(rec)
	if err != nil {
		return result, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode record as %T: %w", result, err)
	}
	return result, nil
}

// RecoverAs runs p over raw, validates against schema and decodes the record
// into T. The *Result is returned as well so callers can see which tier won.
func RecoverAs[T any](ctx context.Context, p *Pipeline, raw string, schema Schema) (T, *Result, error) {
	var zero T

	res, err := p.Recover(ctx, raw, schema)
	if err != nil {
		return zero, nil, err
	}

	value, err := Decode[T](res.Record)
	if err != nil {
		return zero, res, err
	}
	return value, res, nil
}
