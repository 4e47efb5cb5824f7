package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hifivelabs/hifive/internal/render"
)

func sampleFrame() *render.Frame {
	return &render.Frame{
		Width:  800,
		Height: 600,
		Circles: []render.Circle{
			{ID: "a", Label: "Topic A", X: 100, Y: 100, Radius: 20, Cluster: 0},
			{ID: "b", Label: "Topic B", X: 300, Y: 200, Radius: 15, Cluster: 0},
		},
		Segments: []render.Segment{
			{SourceID: "a", TargetID: "b", X1: 100, Y1: 100, X2: 300, Y2: 200, Weight: 0.4},
		},
	}
}

func TestExportFrameHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scene.html")
	if err := exportFrame(sampleFrame(), out, "", "Test Scene"); err != nil {
		t.Fatalf("exportFrame: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Test Scene") {
		t.Error("exported page missing title")
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("exported page missing svg")
	}
}

func TestExportFrameJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scene.json")
	if err := exportFrame(sampleFrame(), out, "", ""); err != nil {
		t.Fatalf("exportFrame: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got render.Frame
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("exported json does not round-trip: %v", err)
	}
	if len(got.Circles) != 2 || len(got.Segments) != 1 {
		t.Fatalf("round-tripped frame has %d circles, %d segments", len(got.Circles), len(got.Segments))
	}
}

func TestExportFrameExplicitFormatWinsOverExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scene.dat")
	if err := exportFrame(sampleFrame(), out, "json", ""); err != nil {
		t.Fatalf("exportFrame: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatal("explicit json format produced non-json output")
	}
}

func TestExportFrameUnknownFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scene.svg")
	if err := exportFrame(sampleFrame(), out, "", ""); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a very long topic label", 10, "a very ..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
