package logutil

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"TRACE", log.DebugLevel},
		{" warn ", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestConfigureOutput_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := ConfigureOutput("warn", &buf); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Configure("info") })

	log.Info("hidden")
	log.Warn("shown", "files", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "files=2") {
		t.Errorf("warn line missing: %q", out)
	}
}
