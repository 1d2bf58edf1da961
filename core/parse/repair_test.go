package parse

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestRepair(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "valid input unchanged", in: `{"a":"x\ny","b":[1,2]}`, want: `{"a":"x\ny","b":[1,2]}`},
		{name: "raw newline", in: "{\"a\":\"line1\nline2\"}", want: `{"a":"line1\nline2"}`},
		{name: "raw carriage return and tab", in: "{\"a\":\"x\r\ty\"}", want: `{"a":"x\r\ty"}`},
		{name: "other control byte", in: "{\"a\":\"x\x01y\"}", want: `{"a":"x\u0001y"}`},
		{name: "whitespace outside strings kept", in: "{\n\t\"a\": \"x\"\n}", want: "{\n\t\"a\": \"x\"\n}"},
		{name: "stray backslash", in: `{"path":"C:\Users\me"}`, want: `{"path":"C:\\Users\\me"}`},
		{name: "short unicode escape", in: `{"a":"\u12"}`, want: `{"a":"\\u12"}`},
		{name: "valid unicode escape", in: `{"a":"\u00e9"}`, want: `{"a":"\u00e9"}`},
		{name: "backslash before raw newline", in: "{\"a\":\"x\\\ny\"}", want: `{"a":"x\\\ny"}`},
		{name: "trailing comma in object", in: `{"a":"1","b":"2",}`, want: `{"a":"1","b":"2"}`},
		{name: "trailing commas nested", in: "{\"l\":[1,2, ],\n}", want: "{\"l\":[1,2 ]\n}"},
		{name: "repeated trailing commas", in: `{"a":[1,,]}`, want: `{"a":[1]}`},
		{name: "comma inside string kept", in: `{"a":",}"}`, want: `{"a":",}"}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := Repair(testCase.in); got != testCase.want {
				t.Errorf("Repair(%q) = %q, want %q", testCase.in, got, testCase.want)
			}
		})
	}
}

func TestParseHeuristic(t *testing.T) {
	rec, repaired, err := ParseHeuristic("{\"a\":\"line1\nline2\",}")
	if err != nil {
		t.Fatalf("ParseHeuristic() error = %v", err)
	}
	if repaired != `{"a":"line1\nline2"}` {
		t.Errorf("repaired = %q", repaired)
	}
	if got, _ := rec.String("a"); got != "line1\nline2" {
		t.Errorf("a = %q, want an embedded newline", got)
	}

	_, repaired, err = ParseHeuristic(`{a: "1"}`)
	var recErr *RecoveryError
	if !errors.As(err, &recErr) || recErr.Kind != HeuristicParseFailed {
		t.Fatalf("error = %v, want HeuristicParseFailed", err)
	}
	if recErr.Text != repaired {
		t.Errorf("error text %q should be the repaired text %q", recErr.Text, repaired)
	}
}

// jsonish draws strings built from the bytes that matter to the rewrites.
var jsonish = rapid.Custom(func(t *rapid.T) string {
	alphabet := []string{`{`, `}`, `[`, `]`, `"`, `,`, `:`, `\`, "\n", "\r", "\t", "\x01", " ", "a", "u", "0", "f", "n", "'"}
	parts := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 40).Draw(t, "parts")
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
})

func TestRepairIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := jsonish.Draw(t, "in")
		once := Repair(in)
		if twice := Repair(once); twice != once {
			t.Fatalf("Repair not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	})
}
