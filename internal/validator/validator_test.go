package validator

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return v
}

func TestValidateCommands(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{
			name:    "all command types",
			payload: `[{"type":"text","text":"hi","x":1,"y":2},{"type":"equation","latex":"x","x":0,"y":0},{"type":"line","points":[0,0,1,1]},{"type":"rect","x":0,"y":0,"width":5,"height":5},{"type":"group","x":0,"y":0,"children":[{"type":"rect","x":0,"y":0,"width":1,"height":1}]}]`,
			valid:   true,
		},
		{
			name:    "empty array",
			payload: `[]`,
			valid:   true,
		},
		{
			name:    "missing required field",
			payload: `[{"type":"text","x":1,"y":2}]`,
			valid:   false,
		},
		{
			name:    "line with too few points",
			payload: `[{"type":"line","points":[1,2]}]`,
			valid:   false,
		},
		{
			name:    "negative rect width",
			payload: `[{"type":"rect","x":0,"y":0,"width":-5,"height":5}]`,
			valid:   false,
		},
		{
			name:    "unknown command type",
			payload: `[{"type":"sparkle","x":1}]`,
			valid:   false,
		},
		{
			name:    "not an array",
			payload: `{"type":"text","text":"hi","x":1,"y":2}`,
			valid:   false,
		},
		{
			name:    "invalid json",
			payload: `[{"type":`,
			valid:   false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := v.ValidateCommands([]byte(tt.payload))
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if !result.Valid && len(result.Errors) == 0 {
				t.Error("Invalid result should carry error details")
			}
		})
	}
}

func TestValidateEmptyPayload(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	result := v.ValidateCommands(nil)
	if result.Valid {
		t.Error("Empty payload should be invalid")
	}
}

func TestNewWithSchemaFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte(`{"type":"array"}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	v, err := New(path)
	if err != nil {
		t.Fatalf("New with schema file failed: %v", err)
	}
	if result := v.ValidateCommands([]byte(`[1,2,3]`)); !result.Valid {
		t.Errorf("Custom schema not applied: %v", result.Errors)
	}

	if _, err := New(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing schema file")
	}
}
