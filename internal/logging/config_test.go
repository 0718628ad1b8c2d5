package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw   string
		want  zerolog.Level
		valid bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.valid {
			t.Errorf("parseLevel(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.valid)
		}
	}
}

func TestNew_LevelSelection(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	tests := []struct {
		name string
		opts Options
		want zerolog.Level
	}{
		{"default", Options{}, zerolog.InfoLevel},
		{"verbose", Options{Verbose: true}, zerolog.DebugLevel},
		{"quiet wins", Options{Verbose: true, Quiet: true}, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Out = &bytes.Buffer{}
			if got := New(tt.opts).GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "trace")
	logger := New(Options{Quiet: true, Out: &bytes.Buffer{}})
	if got := logger.GetLevel(); got != zerolog.TraceLevel {
		t.Errorf("level = %v, want trace", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	ctx := Into(context.Background(), New(Options{Out: &buf}))
	From(ctx).Info().Msg("hello")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected log output to contain %q, got %q", "hello", buf.String())
	}
}
