package errors

import (
	"testing"
)

func TestValidateUploadFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain csv", "kills.csv", false},
		{"upper ext", "KILLS.CSV", false},
		{"dashes", "run-2024-01.csv", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)) + ".csv", true},
		{"with path /", "dir/kills.csv", true},
		{"with path \\", "dir\\kills.csv", true},
		{"not csv", "kills.txt", true},
		{"control char", "ki\x01lls.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploadFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUploadFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMutantCount(t *testing.T) {
	tests := []struct {
		count, limit int
		wantErr      bool
	}{
		{10, 100, false},
		{100, 100, false},
		{101, 100, true},
		{1 << 20, 0, false},
		{5, -1, false},
	}

	for _, tt := range tests {
		err := ValidateMutantCount(tt.count, tt.limit)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMutantCount(%d, %d) error = %v, wantErr %v", tt.count, tt.limit, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeTooLarge) {
			t.Errorf("ValidateMutantCount(%d, %d) returned wrong code: %v", tt.count, tt.limit, err)
		}
	}
}

func TestValidateGroupCount(t *testing.T) {
	if err := ValidateGroupCount(3, 2); !Is(err, ErrCodeTooLarge) {
		t.Errorf("ValidateGroupCount(3, 2) = %v, want TOO_LARGE", err)
	}
	if err := ValidateGroupCount(2, 2); err != nil {
		t.Errorf("ValidateGroupCount(2, 2) = %v, want nil", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/graph.svg", false},
		{"absolute", "/tmp/graph.svg", false},
		{"filename only", "graph.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}
