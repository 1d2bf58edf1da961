package pseudocode

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPseudocode is returned before any provider call when the input
	// is empty or whitespace.
	ErrEmptyPseudocode = errors.New("pseudocode is empty")

	// ErrProviderCall marks failures talking to the model.
	ErrProviderCall = errors.New("model request failed")

	// ErrParseResponse marks replies no recovery tier could turn into a
	// valid result. The *parse.RecoveryError is in the chain as well.
	ErrParseResponse = errors.New("failed to parse model response")
)

// Operation names a service call.
type Operation string

const (
	OpTranslate Operation = "translate"
	OpAnalyze   Operation = "analyze"
)

// RequestError wraps a failed Translate or AnalyzePerformance call.
type RequestError struct {
	Op        Operation
	RequestID string
	Err       error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request %s: %v", e.Op, e.RequestID, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message shown to an end user for err: a retry hint
// for unparseable replies and a connectivity hint for everything else.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyPseudocode) {
		return "Please enter some pseudocode first."
	}
	if errors.Is(err, ErrParseResponse) {
		return "Failed to parse AI response. Please try again."
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Op == OpAnalyze {
		return "Failed to analyze performance. Please check your internet connection and try again."
	}
	return "Failed to translate pseudocode. Please check your internet connection and try again."
}
