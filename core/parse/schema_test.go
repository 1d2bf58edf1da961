package parse

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	schema := Schema{
		{Name: "title", Kind: KindString},
		{Name: "rating", Kind: KindNumber},
		{Name: "items", Kind: KindRecords},
	}

	testCases := []struct {
		name      string
		rec       Record
		wantKind  ErrorKind
		wantField string
	}{
		{name: "valid", rec: Record{"title": "t", "rating": 4.0, "items": []Record{{"x": "y"}}}},
		{name: "numeric string and empty list", rec: Record{"title": "t", "rating": "4.5", "items": []any{}}},
		{name: "missing string", rec: Record{"rating": 4.0, "items": []any{}}, wantKind: MissingRequiredField, wantField: "title"},
		{name: "empty string", rec: Record{"title": "", "rating": 4.0, "items": []any{}}, wantKind: MissingRequiredField, wantField: "title"},
		{name: "null value", rec: Record{"title": "t", "rating": nil, "items": []any{}}, wantKind: MissingRequiredField, wantField: "rating"},
		{name: "string of wrong kind", rec: Record{"title": 3.0}, wantKind: InvalidFieldKind, wantField: "title"},
		{name: "number of wrong kind", rec: Record{"title": "t", "rating": "four"}, wantKind: InvalidFieldKind, wantField: "rating"},
		{name: "records of wrong kind", rec: Record{"title": "t", "rating": 1.0, "items": []any{"a"}}, wantKind: InvalidFieldKind, wantField: "items"},
		{name: "first violation in schema order", rec: Record{}, wantKind: MissingRequiredField, wantField: "title"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := schema.Validate(testCase.rec)
			if testCase.wantKind == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var recErr *RecoveryError
			if !errors.As(err, &recErr) {
				t.Fatalf("Validate() error = %v, want *RecoveryError", err)
			}
			if recErr.Kind != testCase.wantKind || recErr.Field != testCase.wantField {
				t.Errorf("Validate() = %s(%q), want %s(%q)", recErr.Kind, recErr.Field, testCase.wantKind, testCase.wantField)
			}
		})
	}
}

func TestEmptySchemaAcceptsAnything(t *testing.T) {
	if err := Schema(nil).Validate(Record{}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParseKind(t *testing.T) {
	testCases := map[string]Kind{
		"string":          KindString,
		"STR":             KindString,
		"number":          KindNumber,
		" num ":           KindNumber,
		"array-of-record": KindRecords,
		"records":         KindRecords,
	}
	for in, want := range testCases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", in, got, err, want)
		}
		if _, err := ParseKind(got.String()); err != nil {
			t.Errorf("ParseKind(%q.String()) error = %v", got, err)
		}
	}
	if _, err := ParseKind("bool"); err == nil {
		t.Error("ParseKind(bool) should fail")
	}
}
