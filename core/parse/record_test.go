package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"s":     "text",
		"f":     2.5,
		"q":     " 7 ",
		"bad":   "seven",
		"list":  []Record{{"a": "b"}},
		"empty": []any{},
		"mixed": []any{1.0},
		"nil":   nil,
	}

	if !rec.Has("nil") || rec.Has("absent") {
		t.Error("Has() should report presence, not truthiness")
	}
	if s, ok := rec.String("s"); !ok || s != "text" {
		t.Errorf("String(s) = %q, %v", s, ok)
	}
	if _, ok := rec.String("f"); ok {
		t.Error("String(f) should fail on a number")
	}

	numberCases := map[string]struct {
		want float64
		ok   bool
	}{
		"f":   {2.5, true},
		"q":   {7, true},
		"bad": {0, false},
		"s":   {0, false},
		"nil": {0, false},
	}
	for key, want := range numberCases {
		got, ok := rec.Number(key)
		if ok != want.ok || got != want.want {
			t.Errorf("Number(%q) = %v, %v, want %v, %v", key, got, ok, want.want, want.ok)
		}
	}

	if got, ok := rec.Records("list"); !ok || len(got) != 1 {
		t.Errorf("Records(list) = %v, %v", got, ok)
	}
	if got, ok := rec.Records("empty"); !ok || got == nil || len(got) != 0 {
		t.Errorf("Records(empty) = %#v, %v, want an empty non-nil slice", got, ok)
	}
	if _, ok := rec.Records("mixed"); ok {
		t.Error("Records(mixed) should fail")
	}
}

func TestToRecordNormalizesNesting(t *testing.T) {
	got := toRecord(map[string]any{
		"o": map[string]any{"l": []any{map[string]any{"k": "v"}}},
		"m": []any{map[string]any{"k": "v"}, "x"},
	})
	want := Record{
		"o": Record{"l": []Record{{"k": "v"}}},
		"m": []any{Record{"k": "v"}, "x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toRecord() mismatch (-want +got):\n%s", diff)
	}
}
