package deps

import (
	"os"
	"path/filepath"
	"testing"

	"briefcast/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
}

func TestRequirementsFFmpegOptionalWithoutPodcast(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)
	if len(reqs) != 1 || reqs[0].Name != "FFmpeg" {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}
	if !reqs[0].Optional {
		t.Fatal("expected ffmpeg to be optional when podcast production is disabled")
	}

	cfg.Paths.AudioOutputDir = t.TempDir()
	reqs = Requirements(&cfg)
	if reqs[0].Optional {
		t.Fatal("expected ffmpeg to be required when podcast production is enabled")
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false, Optional: true},
		{Name: "C", Available: false},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "C" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}
