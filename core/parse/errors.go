package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies where recovery stopped.
type ErrorKind string

const (
	NoJSONFound          ErrorKind = "no_json_found"
	StrictParseFailed    ErrorKind = "strict_parse_failed"
	HeuristicParseFailed ErrorKind = "heuristic_parse_failed"
	LenientParseFailed   ErrorKind = "lenient_parse_failed"
	ReconstructionFailed ErrorKind = "reconstruction_failed"
	MissingRequiredField ErrorKind = "missing_required_field"
	InvalidFieldKind     ErrorKind = "invalid_field_kind"
)

// Sentinel errors, one per ErrorKind. A *RecoveryError matches the sentinel
// of its kind under errors.Is.
var (
	ErrNoJSONFound          = errors.New("no JSON object found in response")
	ErrStrictParseFailed    = errors.New("strict parse failed")
	ErrHeuristicParseFailed = errors.New("heuristic repair failed")
	ErrLenientParseFailed   = errors.New("lenient repair failed")
	ErrReconstructionFailed = errors.New("no key/value pairs could be reconstructed")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFieldKind     = errors.New("field has invalid kind")
)

var kindSentinels = map[ErrorKind]error{
	NoJSONFound:          ErrNoJSONFound,
	StrictParseFailed:    ErrStrictParseFailed,
	HeuristicParseFailed: ErrHeuristicParseFailed,
	LenientParseFailed:   ErrLenientParseFailed,
	ReconstructionFailed: ErrReconstructionFailed,
	MissingRequiredField: ErrMissingRequiredField,
	InvalidFieldKind:     ErrInvalidFieldKind,
}

// RecoveryError is the single typed failure returned by the pipeline.
//
// Kind says where recovery stopped. Field is set for schema failures. Tiers
// lists the parsing tiers that were attempted, in order, and Attempts keeps
// the text each tier worked on. Text is the text of the final failed attempt
// and is meant for logging only. Err is the underlying cause, if any.
type RecoveryError struct {
	Kind     ErrorKind
	Field    string
	Tiers    []Tier
	Attempts []Attempt
	Text     string
	Err      error
}

func (e *RecoveryError) Error() string {
	var b strings.Builder
	b.WriteString(kindSentinels[e.Kind].Error())
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	if len(e.Tiers) > 0 {
		fmt.Fprintf(&b, " (tiers attempted: %s)", joinTiers(e.Tiers))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *RecoveryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *RecoveryError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func newRecoveryError(kind ErrorKind, text string, cause error) *RecoveryError {
	return &RecoveryError{Kind: kind, Text: text, Err: cause}
}

// KindOf returns the ErrorKind carried by err, or "" if err is not (and does
// not wrap) a *RecoveryError.
func KindOf(err error) ErrorKind {
	var recErr *RecoveryError
	if errors.As(err, &recErr) {
		return recErr.Kind
	}
	return ""
}
