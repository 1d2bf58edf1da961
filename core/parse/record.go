package parse

import (
	"strconv"
	"strings"
)

// Record is a recovered JSON object. Values are one of string, float64, bool,
// nil, a nested Record, []Record (a non-empty array of objects) or []any.
type Record map[string]any

// Has reports whether key is present, whatever its value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the value of key if it is a string.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Number returns the value of key as a float64. A string holding a decimal
// number is accepted, since models quote numbers often enough.
func (r Record) Number(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Records returns the value of key as a list of sub-records. An empty array
// yields an empty, non-nil slice.
func (r Record) Records(key string) ([]Record, bool) {
	switch v := r[key].(type) {
	case []Record:
		return v, true
	case []any:
		if len(v) == 0 {
			return []Record{}, true
		}
	}
	return nil, false
}

// toRecord converts the output of json decoding into a Record, turning
// nested objects into Record and arrays of objects into []Record.
func toRecord(m map[string]any) Record {
	rec := make(Record, len(m))
	for k, v := range m {
		rec[k] = normalizeValue(v)
	}
	return rec
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return toRecord(t)
	case []any:
		if len(t) == 0 {
			return t
		}
		records := make([]Record, 0, len(t))
		for _, item := range t {
			obj, ok := item.(map[string]any)
			if !ok {
				out := make([]any, len(t))
				for i := range t {
					out[i] = normalizeValue(t[i])
				}
				return out
			}
			records = append(records, toRecord(obj))
		}
		return records
	default:
		return v
	}
}
