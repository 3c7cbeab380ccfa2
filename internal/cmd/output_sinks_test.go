package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tubelens/tubelens/internal/output"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"playlists-UC_x5XG1OV2P6uZZ5FSM9Ttw": "playlists-uc_x5xg1ov2p6uzz5fsm9ttw",
		"items PLabc/def":                    "items-plabc-def",
		"  ":                                 "output",
		"...---":                             "output",
	}
	for input, want := range cases {
		if got := sanitizeFilename(input); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestOutputExtension(t *testing.T) {
	if got := outputExtension(output.FormatJSON); got != "json" {
		t.Errorf("json extension = %q", got)
	}
	if got := outputExtension(output.FormatMarkdown); got != "md" {
		t.Errorf("markdown extension = %q", got)
	}
	if got := outputExtension(output.FormatTable); got != "txt" {
		t.Errorf("table extension = %q", got)
	}
}

func TestQuotaSinkRejectsConflictingTargets(t *testing.T) {
	if _, err := quotaSink("out.json", t.TempDir(), "quota.status", output.FormatJSON); err == nil {
		t.Fatal("expected error when both --out and --out-dir are set")
	}
}

func TestQuotaSinkWritesIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	sink, err := quotaSink("", dir, "quota.status", output.FormatJSON)
	if err != nil {
		t.Fatalf("quotaSink: %v", err)
	}
	defer func() { _ = sink.close() }()

	want := filepath.Join(dir, "quota.status.json")
	if sink.path != want {
		t.Fatalf("sink path = %q, want %q", sink.path, want)
	}
}

func TestBuildInitConfig(t *testing.T) {
	withToken := buildInitConfig("secret-token")
	if !strings.Contains(withToken, `token: "secret-token"`) {
		t.Errorf("expected token line, got:\n%s", withToken)
	}
	if !strings.Contains(withToken, "preset: default") {
		t.Errorf("expected default preset, got:\n%s", withToken)
	}

	withoutToken := buildInitConfig("")
	if strings.Contains(withoutToken, "secret") {
		t.Errorf("unexpected token in config:\n%s", withoutToken)
	}
	if !strings.Contains(withoutToken, "TUBELENS_YOUTUBE_TOKEN") {
		t.Errorf("expected env override hint, got:\n%s", withoutToken)
	}
}
