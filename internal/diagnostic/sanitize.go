package diagnostic

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse marks model output that could not be turned into a
// valid document. Callers treat it as a retry trigger.
var ErrMalformedResponse = errors.New("malformed response")

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// document is a typed model output that can check its own invariants.
type document[T any] interface {
	*T
	Validate() error
}

// StripFences removes a leading code fence (optionally tagged json) and a
// trailing fence, then trims surrounding whitespace.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Sanitize strips fences, decodes the remainder into T and validates it.
// Every failure wraps ErrMalformedResponse.
func Sanitize[T any, P document[T]](raw string) (*T, error) {
	body := StripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	var doc T
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := P(&doc).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &doc, nil
}
