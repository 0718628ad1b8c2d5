package rez

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		out     string
		want    string
		wantErr bool
	}{
		{"Rez 2.113.0", "2.113.0", false},
		{"2.114.1\n", "2.114.1", false},
		{"rez v3.0.0-beta.1", "3.0.0-beta.1", false},
		{"Rez 2.1", "2.1.0", false},
		{"command not found", "", true},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.out)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVersion(%q) expected error", tt.out)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q) error: %v", tt.out, err)
			continue
		}
		if v.String() != tt.want {
			t.Errorf("ParseVersion(%q) = %s, want %s", tt.out, v, tt.want)
		}
	}
}

func TestProbeVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake rez is a shell script")
	}
	dir := t.TempDir()

	tests := []struct {
		name      string
		script    string
		supported bool
		wantErr   bool
	}{
		{"current", "echo 'Rez 2.113.0'", true, false},
		{"old", "echo '1.7.0'", false, false},
		{"failing", "echo boom >&2; exit 2", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(dir, tt.name)
			if err := os.WriteFile(p, []byte("#!/bin/sh\n"+tt.script+"\n"), 0o755); err != nil {
				t.Fatal(err)
			}
			info, err := ProbeVersion(context.Background(), Command{Prefix: []string{p}})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ProbeVersion error: %v", err)
			}
			if info.Supported != tt.supported {
				t.Errorf("Supported = %v, want %v (version %s)", info.Supported, tt.supported, info.Version)
			}
		})
	}
}
