package eaf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<ANNOTATION_DOCUMENT AUTHOR="" FORMAT="3.0" VERSION="3.0">
  <HEADER MEDIA_FILE="" TIME_UNITS="milliseconds">
    <MEDIA_DESCRIPTOR MEDIA_URL="file:///tmp/video.mp4" MIME_TYPE="video/mp4"/>
    <MEDIA_DESCRIPTOR MEDIA_URL="file:///tmp/audio.wav" MIME_TYPE="audio/x-wav" RELATIVE_MEDIA_URL="./audio.wav"/>
  </HEADER>
  <TIME_ORDER>
    <TIME_SLOT TIME_SLOT_ID="ts1" TIME_VALUE="0"/>
    <TIME_SLOT TIME_SLOT_ID="ts2" TIME_VALUE="3200"/>
    <TIME_SLOT TIME_SLOT_ID="ts3"/>
    <TIME_SLOT TIME_SLOT_ID="ts4" TIME_VALUE="4750"/>
    <TIME_SLOT TIME_SLOT_ID="ts2" TIME_VALUE="3300"/>
  </TIME_ORDER>
  <TIER LINGUISTIC_TYPE_REF="utterance" TIER_ID="utterances">
    <ANNOTATION>
      <ALIGNABLE_ANNOTATION ANNOTATION_ID="a1" TIME_SLOT_REF1="ts1" TIME_SLOT_REF2="ts2">
        <ANNOTATION_VALUE>hello world</ANNOTATION_VALUE>
      </ALIGNABLE_ANNOTATION>
    </ANNOTATION>
    <ANNOTATION>
      <ALIGNABLE_ANNOTATION ANNOTATION_ID="a2" TIME_SLOT_REF1="ts2" TIME_SLOT_REF2="ts4"/>
    </ANNOTATION>
    <ANNOTATION>
      <ALIGNABLE_ANNOTATION ANNOTATION_ID="a3" TIME_SLOT_REF1="ts3" TIME_SLOT_REF2="ts4">
        <ANNOTATION_VALUE>  spaced &amp; kept
</ANNOTATION_VALUE>
      </ALIGNABLE_ANNOTATION>
    </ANNOTATION>
  </TIER>
  <TIER LINGUISTIC_TYPE_REF="translation" PARENT_REF="utterances" TIER_ID="translation">
    <ANNOTATION>
      <REF_ANNOTATION ANNOTATION_ID="a4" ANNOTATION_REF="a1">
        <ANNOTATION_VALUE>hola mundo</ANNOTATION_VALUE>
      </REF_ANNOTATION>
    </ANNOTATION>
  </TIER>
  <TIER TIER_ID="notes">
    <ANNOTATION>
      <ALIGNABLE_ANNOTATION ANNOTATION_ID="a5" TIME_SLOT_REF1="ts1" TIME_SLOT_REF2="ts4">
        <ANNOTATION_VALUE>note</ANNOTATION_VALUE>
      </ALIGNABLE_ANNOTATION>
    </ANNOTATION>
  </TIER>
</ANNOTATION_DOCUMENT>
`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return doc
}

func TestMediaReferencePrefersWaveAudio(t *testing.T) {
	doc := decodeSample(t)
	media, ok := doc.MediaReference()
	if !ok {
		t.Fatal("expected media reference")
	}
	if media.MediaURL != "file:///tmp/audio.wav" {
		t.Fatalf("expected wav descriptor, got %q", media.MediaURL)
	}
	if media.RelativeMediaURL != "./audio.wav" {
		t.Fatalf("unexpected relative url: %q", media.RelativeMediaURL)
	}
}

func TestMediaReferenceFallsBackToFirstDescriptor(t *testing.T) {
	doc := &Document{MediaDescriptors: []MediaDescriptor{
		{MIMEType: "video/mp4", MediaURL: "file:///a.mp4"},
		{MIMEType: "video/mpeg", MediaURL: "file:///b.mpg"},
	}}
	media, ok := doc.MediaReference()
	if !ok || media.MediaURL != "file:///a.mp4" {
		t.Fatalf("expected first descriptor, got %+v ok=%v", media, ok)
	}

	media, ok = doc.MediaReference("video/mpeg")
	if !ok || media.MediaURL != "file:///b.mpg" {
		t.Fatalf("expected preferred descriptor, got %+v ok=%v", media, ok)
	}
}

func TestMediaReferenceMissing(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<ANNOTATION_DOCUMENT><HEADER/></ANNOTATION_DOCUMENT>`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if _, ok := doc.MediaReference(); ok {
		t.Fatal("expected no media reference")
	}
}

func TestTimeSlotsLastDuplicateWins(t *testing.T) {
	slots := decodeSample(t).TimeSlots()
	if got, ok := slots.Lookup("ts2"); !ok || got != 3300 {
		t.Fatalf("expected last duplicate 3300, got %d ok=%v", got, ok)
	}
	if _, ok := slots.Lookup("ts3"); ok {
		t.Fatal("expected unaligned slot to be omitted")
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
}

func TestUtterancesSelectTierInDocumentOrder(t *testing.T) {
	doc := decodeSample(t)
	utts := doc.Utterances("utterances")
	if len(utts) != 3 {
		t.Fatalf("expected 3 utterances, got %d", len(utts))
	}
	if utts[0].StartSlot != "ts1" || utts[0].EndSlot != "ts2" || utts[0].Text != "hello world" {
		t.Fatalf("unexpected first utterance: %+v", utts[0])
	}
	if utts[1].Text != "" {
		t.Fatalf("expected empty text for missing value, got %q", utts[1].Text)
	}
	if utts[2].Text != "  spaced & kept\n" {
		t.Fatalf("expected whitespace to be preserved, got %q", utts[2].Text)
	}
	if got := doc.Utterances("translation"); len(got) != 0 {
		t.Fatalf("expected reference annotations to be ignored, got %+v", got)
	}
	if got := doc.Utterances("missing"); len(got) != 0 {
		t.Fatalf("expected no utterances for unknown tier, got %+v", got)
	}
	if !doc.HasTier("notes") || doc.HasTier("missing") {
		t.Fatal("unexpected HasTier result")
	}
	if got := strings.Join(doc.TierIDs(), ","); got != "utterances,translation,notes" {
		t.Fatalf("unexpected tier ids: %q", got)
	}
}

func TestDecodeRejectsMalformedXML(t *testing.T) {
	_, err := Decode(strings.NewReader(`<ANNOTATION_DOCUMENT><HEADER>`))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeAcceptsAnyRootElement(t *testing.T) {
	body := `<FIXTURE>
  <HEADER><MEDIA_DESCRIPTOR MEDIA_URL="file:///tmp/a.wav" MIME_TYPE="audio/x-wav"/></HEADER>
  <TIME_ORDER><TIME_SLOT TIME_SLOT_ID="ts1" TIME_VALUE="0"/><TIME_SLOT TIME_SLOT_ID="ts2" TIME_VALUE="500"/></TIME_ORDER>
  <TIER TIER_ID="main"><ANNOTATION><ALIGNABLE_ANNOTATION ANNOTATION_ID="a1" TIME_SLOT_REF1="ts1" TIME_SLOT_REF2="ts2"><ANNOTATION_VALUE>hi</ANNOTATION_VALUE></ALIGNABLE_ANNOTATION></ANNOTATION></TIER>
</FIXTURE>`
	doc, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	utts := doc.Utterances("main")
	if len(utts) != 1 || utts[0].Text != "hi" {
		t.Fatalf("unexpected utterances: %#v", utts)
	}
	if ms, ok := doc.TimeSlots().Lookup("ts2"); !ok || ms != 500 {
		t.Fatalf("expected ts2=500, got %d (%v)", ms, ok)
	}
}

func TestDecodeRejectsInvalidTimeValue(t *testing.T) {
	_, err := Decode(strings.NewReader(`<ANNOTATION_DOCUMENT><TIME_ORDER><TIME_SLOT TIME_SLOT_ID="ts1" TIME_VALUE="abc"/></TIME_ORDER></ANNOTATION_DOCUMENT>`))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeLatin1Document(t *testing.T) {
	body := `<?xml version="1.0" encoding="ISO-8859-1"?>
<ANNOTATION_DOCUMENT><TIME_ORDER><TIME_SLOT TIME_SLOT_ID="ts1" TIME_VALUE="0"/><TIME_SLOT TIME_SLOT_ID="ts2" TIME_VALUE="10"/></TIME_ORDER>
<TIER TIER_ID="u"><ANNOTATION><ALIGNABLE_ANNOTATION TIME_SLOT_REF1="ts1" TIME_SLOT_REF2="ts2"><ANNOTATION_VALUE>señor</ANNOTATION_VALUE></ALIGNABLE_ANNOTATION></ANNOTATION></TIER>
</ANNOTATION_DOCUMENT>`
	encoded, err := charmap.ISO8859_1.NewEncoder().String(body)
	if err != nil {
		t.Fatalf("encode latin1: %v", err)
	}
	doc, err := Decode(bytes.NewReader([]byte(encoded)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	utts := doc.Utterances("u")
	if len(utts) != 1 || utts[0].Text != "señor" {
		t.Fatalf("expected decoded latin1 text, got %+v", utts)
	}
}

func TestParseWrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.eaf")
	if err := os.WriteFile(path, []byte("not xml"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := Parse(path)
	if err == nil || !strings.Contains(err.Error(), "broken.eaf") {
		t.Fatalf("expected error mentioning path, got %v", err)
	}
	if _, err := Parse(filepath.Join(t.TempDir(), "absent.eaf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
