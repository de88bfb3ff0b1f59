package shell

import (
	"testing"
)

func TestLaunch(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "Simple command",
			input:   "true",
			wantErr: false,
		},
		{
			name:    "Failing command still starts",
			input:   "exit 3",
			wantErr: false,
		},
		{
			name:    "Empty command",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			proc, err := Launch(tc.input)

			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if proc == nil || proc.Pid <= 0 {
				t.Errorf("Expected a started process, got %v", proc)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	// Set a test home directory
	testHome := "/test/home/user"
	t.Setenv("HOME", testHome)

	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Tilde expansion",
			input:    "~/test",
			expected: testHome + "/test",
			wantErr:  false,
		},
		{
			name:     "Single tilde",
			input:    "~",
			expected: testHome,
			wantErr:  false,
		},
		{
			name:     "Environment variable expansion",
			input:    "$HOME/docs",
			expected: testHome + "/docs",
			wantErr:  false,
		},
		{
			name:     "Braced environment variable expansion",
			input:    "${HOME}/docs",
			expected: testHome + "/docs",
			wantErr:  false,
		},
		{
			name:     "Mixed expansions",
			input:    "~/docs/$HOME/test",
			expected: testHome + "/docs/" + testHome + "/test",
			wantErr:  false,
		},
		{
			name:     "Undefined environment variable",
			input:    "$UNDEFINED_VAR/test",
			expected: "/test",
			wantErr:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ExpandHome(tc.input)

			if tc.wantErr && err == nil {
				t.Errorf("Expected an error, got nil")
			}

			if err != nil && !tc.wantErr {
				t.Errorf("Unexpected error: %v", err)
			}

			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestExpandHomeUnclosedBrace(t *testing.T) {
	if _, err := ExpandHome("${HOME/docs"); err == nil {
		t.Error("Expected an error for unclosed brace, got nil")
	}
}

// Benchmark for performance testing
func BenchmarkExpandHome(b *testing.B) {
	b.Setenv("HOME", "/home/testuser")
	input := "~/documents/${HOME}/projects"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ExpandHome(input)
	}
}
