package parse

import (
	"errors"
	"testing"
)

func TestLocateObject(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":"1"}`, want: `{"a":"1"}`},
		{name: "prose around", in: `Sure! {"a":"1"} Hope this helps {x}`, want: `{"a":"1"}`},
		{name: "nested", in: `x {"a":{"b":[{"c":1}]}} y`, want: `{"a":{"b":[{"c":1}]}}`},
		{name: "braces inside strings", in: `{"code":"if (x) { y(); }"} tail}`, want: `{"code":"if (x) { y(); }"}`},
		{name: "escaped quote inside string", in: `{"q":"say \"}\" now"} }`, want: `{"q":"say \"}\" now"}`},
		{name: "single quoted literal", in: `{'a': '}'} }`, want: `{'a': '}'}`},
		{name: "apostrophe in bare word", in: `{note: don't} }`, want: `{note: don't}`},
		{name: "first of several objects", in: `{"a":1} {"b":2}`, want: `{"a":1}`},
		{name: "truncated runs to end", in: `result: {"a":"1", "b":`, want: `{"a":"1", "b":`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := LocateObject(testCase.in)
			if err != nil {
				t.Fatalf("LocateObject(%q) error = %v", testCase.in, err)
			}
			if got != testCase.want {
				t.Errorf("LocateObject(%q) = %q, want %q", testCase.in, got, testCase.want)
			}
		})
	}
}

func TestLocateObject_NoObject(t *testing.T) {
	for _, in := range []string{"", "I cannot help with that request.", `["a", "b"]`, "}"} {
		_, err := LocateObject(in)
		if !errors.Is(err, ErrNoJSONFound) {
			t.Errorf("LocateObject(%q) error = %v, want ErrNoJSONFound", in, err)
		}
	}
}
