package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestText_Valid(t *testing.T) {
	got, err := Text("She is survived by her husband Paul.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "She is survived by her husband Paul." {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestText_Empty(t *testing.T) {
	_, err := Text("")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Reason != ReasonEmpty {
		t.Errorf("Expected reason %q, got %q", ReasonEmpty, verr.Reason)
	}
}

func TestText_Bounds(t *testing.T) {
	if _, err := Text(strings.Repeat("a", MaxTextLength)); err != nil {
		t.Errorf("Expected %d characters to be accepted, got %v", MaxTextLength, err)
	}

	_, err := Text(strings.Repeat("a", MaxTextLength+1))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Reason != ReasonTooLong || verr.Length != MaxTextLength+1 {
		t.Errorf("Unexpected error detail: %+v", verr)
	}
}

func TestText_CountsCharactersNotBytes(t *testing.T) {
	// 5000 two-byte characters is within the limit
	if _, err := Text(strings.Repeat("é", MaxTextLength)); err != nil {
		t.Errorf("Expected multi-byte text at the limit to be accepted, got %v", err)
	}
}

func TestText_NFC(t *testing.T) {
	decomposed := "Rene\u0301e"
	got, err := Text(decomposed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "Ren\u00e9e" {
		t.Errorf("Expected composed form, got %q", got)
	}
}

func TestNormalize_Types(t *testing.T) {
	s := "Loving father of Tom."

	if got, err := Normalize(s); err != nil || got != s {
		t.Errorf("string: got %q, %v", got, err)
	}
	if got, err := Normalize(&s); err != nil || got != s {
		t.Errorf("*string: got %q, %v", got, err)
	}
	if got, err := Normalize([]byte(s)); err != nil || got != s {
		t.Errorf("[]byte: got %q, %v", got, err)
	}

	var nilPtr *string
	for _, v := range []any{42, nil, nilPtr, map[string]string{}} {
		_, err := Normalize(v)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Reason != ReasonType {
			t.Errorf("Normalize(%T): expected type error, got %v", v, err)
		}
	}
}
