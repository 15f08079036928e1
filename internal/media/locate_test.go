package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"eafcut/internal/eaf"
	"eafcut/internal/media/ffprobe"
	"eafcut/internal/services"
)

type stubProber struct {
	result ffprobe.Result
	err    error
	calls  int
}

func (s *stubProber) Probe(context.Context, string) (ffprobe.Result, error) {
	s.calls++
	return s.result, s.err
}

func writeMedia(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	return path
}

func docWithURL(url string) *eaf.Document {
	return &eaf.Document{MediaDescriptors: []eaf.MediaDescriptor{{MIMEType: "audio/x-wav", MediaURL: url}}}
}

func TestPathFromURL(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}
	cases := map[string]string{
		"file:///tmp/audio.wav":         "/tmp/audio.wav",
		"file:///data/my%20session.wav": "/data/my session.wav",
		"/already/a/path.wav":           "/already/a/path.wav",
		"  file:///tmp/padded.wav  ":    "/tmp/padded.wav",
		"file:./relative/session.wav":   "./relative/session.wav",
		"relative/plain.wav":            "relative/plain.wav",
		"file:///tmp/take#2.wav":        "/tmp/take#2.wav",
		"file:///tmp/q?a.wav":           "/tmp/q?a.wav",
		"file:///tmp/100%.wav":          "/tmp/100%.wav",
		"FILE:///tmp/upper.wav":         "/tmp/upper.wav",
		"file://localhost/tmp/a.wav":    "/tmp/a.wav",
		"file:/tmp/single.wav":          "/tmp/single.wav",
	}
	for in, want := range cases {
		if got := PathFromURL(in); got != want {
			t.Fatalf("PathFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocateKeepsReservedURLCharacters(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("'?' is not allowed in windows file names")
	}
	dir := t.TempDir()
	for _, name := range []string{"take#2.wav", "q?a.wav", "sp ace.wav"} {
		path := writeMedia(t, dir, name)
		media, err := Locator{}.Locate(context.Background(), docWithURL("file://"+filepath.ToSlash(path)), "doc.eaf")
		if err != nil {
			t.Fatalf("locate %q: %v", name, err)
		}
		if media.Path != path {
			t.Fatalf("expected %q, got %q", path, media.Path)
		}
	}
}

func TestLocateNoMedia(t *testing.T) {
	_, err := Locator{}.Locate(context.Background(), &eaf.Document{}, "doc.eaf")
	if !errors.Is(err, ErrNoMedia) {
		t.Fatalf("expected ErrNoMedia, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if SkipReason(err) != "no media" {
		t.Fatalf("unexpected skip reason %q", SkipReason(err))
	}
}

func TestLocateMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.wav")
	_, err := Locator{}.Locate(context.Background(), docWithURL("file://"+filepath.ToSlash(missing)), "doc.eaf")
	if !errors.Is(err, ErrMediaMissing) {
		t.Fatalf("expected ErrMediaMissing, got %v", err)
	}
	if SkipReason(err) != "missing file" {
		t.Fatalf("unexpected skip reason %q", SkipReason(err))
	}
}

func TestLocateExcludedContainerIgnoresCase(t *testing.T) {
	dir := t.TempDir()
	path := writeMedia(t, dir, "session.AVI")
	loc := Locator{ExcludedExtensions: []string{".avi"}}
	_, err := loc.Locate(context.Background(), docWithURL("file://"+filepath.ToSlash(path)), "doc.eaf")
	if !errors.Is(err, ErrUnsupportedContainer) {
		t.Fatalf("expected ErrUnsupportedContainer, got %v", err)
	}
}

func TestLocateResolvesRelativeMedia(t *testing.T) {
	dir := t.TempDir()
	writeMedia(t, dir, "session.wav")
	doc := &eaf.Document{MediaDescriptors: []eaf.MediaDescriptor{{
		MIMEType:         "audio/x-wav",
		MediaURL:         "file:///nowhere/session.wav",
		RelativeMediaURL: "./session.wav",
	}}}
	docPath := filepath.Join(dir, "session.eaf")

	if _, err := (Locator{}).Locate(context.Background(), doc, docPath); !errors.Is(err, ErrMediaMissing) {
		t.Fatalf("expected relative lookup to be off by default, got %v", err)
	}

	media, err := Locator{ResolveRelative: true}.Locate(context.Background(), doc, docPath)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if media.Path != filepath.Join(dir, "session.wav") {
		t.Fatalf("unexpected media path %q", media.Path)
	}
}

func TestLocateWithProber(t *testing.T) {
	dir := t.TempDir()
	path := writeMedia(t, dir, "session.wav")
	doc := docWithURL("file://" + filepath.ToSlash(path))

	prober := &stubProber{result: ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "audio"}},
		Format:  ffprobe.Format{Duration: "12.5"},
	}}
	media, err := Locator{Prober: prober}.Locate(context.Background(), doc, "doc.eaf")
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if media.Duration != 12.5 || prober.calls != 1 {
		t.Fatalf("unexpected probe result: %+v calls=%d", media, prober.calls)
	}

	silent := &stubProber{result: ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}}}
	if _, err := (Locator{Prober: silent}).Locate(context.Background(), doc, "doc.eaf"); !errors.Is(err, ErrNoAudioStream) {
		t.Fatalf("expected ErrNoAudioStream, got %v", err)
	}

	broken := &stubProber{err: errors.New("exit status 1")}
	_, err = Locator{Prober: broken}.Locate(context.Background(), doc, "doc.eaf")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if services.FailureOutcome(err) != services.OutcomeFailed {
		t.Fatalf("expected probe errors to fail the document")
	}
}
