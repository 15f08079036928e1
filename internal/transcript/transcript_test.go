package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"eafcut/internal/timeline"
)

func TestWriteVerbatim(t *testing.T) {
	dir := t.TempDir()
	spans := []timeline.Span{
		{StartSlot: "ts1", EndSlot: "ts2", Text: "hello world"},
		{StartSlot: "ts3", EndSlot: "ts4", Text: "  grüß dich\n"},
		{StartSlot: "ts5", EndSlot: "ts6", Text: ""},
	}

	results := Write("/media/audio.wav", spans, dir)
	if len(results) != len(spans) {
		t.Fatalf("expected %d results, got %d", len(spans), len(results))
	}
	for i, result := range results {
		if result.Err != nil {
			t.Fatalf("result %d: %v", i, result.Err)
		}
		got, err := os.ReadFile(result.Path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != spans[i].Text {
			t.Fatalf("result %d: got %q, want %q", i, got, spans[i].Text)
		}
	}
	if results[0].Path != filepath.Join(dir, "audio_ts1_ts2.txt") {
		t.Fatalf("unexpected path %q", results[0].Path)
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audio_ts1_ts2.txt")
	if err := os.WriteFile(path, []byte("stale content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := Write("/media/audio.wav", []timeline.Span{{StartSlot: "ts1", EndSlot: "ts2", Text: "new"}}, dir)
	if results[0].Err != nil {
		t.Fatal(results[0].Err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestWriteReportsErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	results := Write("/media/audio.wav", []timeline.Span{{StartSlot: "a", EndSlot: "b"}}, missing)
	if results[0].Err == nil {
		t.Fatal("expected error writing into missing directory")
	}
}
