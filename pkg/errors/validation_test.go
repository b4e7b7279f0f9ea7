package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Science", false},
		{"valid with spaces", "Holy Roman Empire", false},
		{"valid unicode", "Österreich", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("category", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePersonID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"newton", false},
		{"3f1c2a4e-8b7d-4c1e-9a2f-0d6b5e4c3a21", false},
		{"wiki:Q935", false},

		{"", true},
		{"-leading", true},
		{"has space", true},
		{"a/b", true},
		{strings.Repeat("x", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidatePersonID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantErr    bool
	}{
		{"typical", -500, 2000, false},
		{"single year", 1000, 1000, false},
		{"limits", MinYear, MaxYear, false},

		{"reversed", 2000, -500, true},
		{"start too small", MinYear - 1, 0, true},
		{"end too large", 0, MaxYear + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeRange(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRange) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidRange)
			}
		})
	}
}

func TestValidateDatasetFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"json", "people.json", ""},
		{"yaml", "people.yaml", ""},
		{"yml upper", "PEOPLE.YML", ""},
		{"csv", "people.csv", ""},

		{"empty", "", ErrCodeInvalidPath},
		{"with path /", "data/people.json", ErrCodeInvalidPath},
		{"with path \\", "data\\people.json", ErrCodeInvalidPath},
		{"hidden file", ".people.json", ErrCodeInvalidPath},
		{"unknown extension", "people.xml", ErrCodeInvalidFormat},
		{"no extension", "people", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatasetFilename(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateDatasetFilename(%q) code = %q, want %q", tt.input, got, tt.wantCode)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "people.json", false},
		{"valid nested", "datasets/europe/people.csv", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.json", true},
		{"backslash", "data\\people.json", true},
		{"control char", "data\x01.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
