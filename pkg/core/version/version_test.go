package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"Scanner", Scanner},
		{"Parser", Parser},
		{"Frontend", Frontend},
		{"History", History},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.version == "" {
				t.Errorf("%s version is empty", tt.name)
			}
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestServiceVersion(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		expected string
	}{
		{"scanner", "scanner", Scanner},
		{"parser", "parser", Parser},
		{"frontend service", "frontend", Frontend},
		{"history store", "history", History},
		{"unknown component", "unknown", Platform},
		{"empty name", "", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ServiceVersion(tt.service)
			if result != tt.expected {
				t.Errorf("ServiceVersion(%q) = %q, want %q", tt.service, result, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()

	if !strings.HasPrefix(s, "udyr "+Platform) {
		t.Errorf("String() = %q, want prefix %q", s, "udyr "+Platform)
	}
	if !strings.Contains(s, "commit "+Commit) {
		t.Errorf("String() = %q, want commit %q", s, Commit)
	}
}

func TestInfo(t *testing.T) {
	info := Info()

	for _, key := range []string{"platform", "scanner", "parser", "frontend", "history", "commit", "build_date", "go"} {
		if info[key] == "" {
			t.Errorf("Info()[%q] is empty", key)
		}
	}
}
