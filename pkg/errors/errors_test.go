package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	e := New(ErrCodeInvalidRange, "start %d is after end %d", 1500, 1400)
	if got, want := e.Error(), "INVALID_RANGE: start 1500 is after end 1400"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("unexpected EOF")
	w := Wrap(ErrCodeInvalidDataset, cause, "parse %s", "people.json")
	if got, want := w.Error(), "INVALID_DATASET: parse people.json: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(w, cause) {
		t.Error("cause should stay reachable through errors.Is")
	}
	if errors.Unwrap(w) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestCodeLookup(t *testing.T) {
	person := New(ErrCodePersonNotFound, "no person %q", "hypatia")

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", person, ErrCodePersonNotFound},
		{"through fmt.Errorf", fmt.Errorf("api: %w", person), ErrCodePersonNotFound},
		{"outermost code wins", Wrap(ErrCodeStorage, person, "query"), ErrCodeStorage},
		{"uncoded", errors.New("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is(UNSUPPORTED) = true")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("layout: %w", New(ErrCodeInvalidGrouping, "unknown grouping %q", "era"))
	if got := UserMessage(wrapped); got != `unknown grouping "era"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("disk full")); got != "disk full" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
		invalid  bool
	}{
		{"file not found", New(ErrCodeFileNotFound, "x"), true, false},
		{"person not found wrapped", Wrap(ErrCodePersonNotFound, errors.New("sql: no rows"), "x"), true, false},
		{"generic not found", fmt.Errorf("mongo: %w", New(ErrCodeNotFound, "x")), true, false},
		{"invalid range", New(ErrCodeInvalidRange, "x"), false, true},
		{"invalid grouping", New(ErrCodeInvalidGrouping, "x"), false, true},
		{"invalid path", New(ErrCodeInvalidPath, "x"), false, true},
		{"storage", New(ErrCodeStorage, "x"), false, false},
		{"internal", New(ErrCodeInternal, "x"), false, false},
		{"plain", errors.New("x"), false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsInvalid(tt.err); got != tt.invalid {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.invalid)
			}
		})
	}
}
