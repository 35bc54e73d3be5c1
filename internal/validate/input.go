package validate

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTextLength is the longest obituary accepted, in characters
const MaxTextLength = 5000

// Reasons reported by ValidationError
const (
	ReasonType    = "type"
	ReasonEmpty   = "empty"
	ReasonTooLong = "too_long"
)

// ValidationError reports input that must not reach the extractor
type ValidationError struct {
	Reason string
	Length int
	Type   string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonType:
		return fmt.Sprintf("invalid obituary text: unsupported type %s", e.Type)
	case ReasonEmpty:
		return "invalid obituary text: empty"
	case ReasonTooLong:
		return fmt.Sprintf("invalid obituary text: %d characters exceeds limit of %d", e.Length, MaxTextLength)
	default:
		return "invalid obituary text: " + e.Reason
	}
}

// Normalize unwraps v into obituary text and validates it.
// A string, a non-nil *string or a []byte is accepted; anything else is a type error.
func Normalize(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return Text(t)
	case *string:
		if t == nil {
			return "", &ValidationError{Reason: ReasonType, Type: "nil *string"}
		}
		return Text(*t)
	case []byte:
		return Text(string(t))
	default:
		return "", &ValidationError{Reason: ReasonType, Type: fmt.Sprintf("%T", v)}
	}
}

// Text validates the length bound and returns the NFC form of s
func Text(s string) (string, error) {
	if !utf8.ValidString(s) {
		s = string([]rune(s)) // replaces invalid bytes with U+FFFD
	}
	s = norm.NFC.String(s)

	n := utf8.RuneCountInString(s)
	if n == 0 {
		return "", &ValidationError{Reason: ReasonEmpty}
	}
	if n > MaxTextLength {
		return "", &ValidationError{Reason: ReasonTooLong, Length: n}
	}
	return s, nil
}
