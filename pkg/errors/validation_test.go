package errors

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) error
		input    string
		wantErr  bool
	}{
		{"name", ValidateName, "Contest Participant", false},
		{"name unicode", ValidateName, "Jüri-Server ✓", false},
		{"name empty", ValidateName, "", true},
		{"name blank", ValidateName, " \t ", true},
		{"name newline", ValidateName, "Web\nApp", true},
		{"name max", ValidateName, strings.Repeat("a", 256), false},
		{"name too long", ValidateName, strings.Repeat("a", 257), true},

		{"tag", ValidateTag, "Database", false},
		{"tag with space", ValidateTag, "Container Instance", false},
		{"tag comma", ValidateTag, "Web,Browser", true},
		{"tag empty", ValidateTag, "", true},

		{"key", ValidateViewKey, "ccpNoAzure", false},
		{"key dashes", ValidateViewKey, "deploy-live_2", false},
		{"key empty", ValidateViewKey, "", true},
		{"key dot", ValidateViewKey, "ccp.svg", true},
		{"key slash", ValidateViewKey, "a/b", true},
		{"key leading dash", ValidateViewKey, "-ccp", true},
		{"key space", ValidateViewKey, "my view", true},

		{"url https", ValidateURL, "https://api.example.com/api", false},
		{"url http port", ValidateURL, "http://localhost:8080", false},
		{"url empty", ValidateURL, "", true},
		{"url scheme", ValidateURL, "ftp://example.com", true},
		{"url relative", ValidateURL, "/workspace/1", true},
		{"url no host", ValidateURL, "https://", true},
		{"url bad escape", ValidateURL, "https://example.com/%zz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
