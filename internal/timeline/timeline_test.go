package timeline

import (
	"errors"
	"testing"
	"time"

	"eafcut/internal/eaf"
)

func TestSecondsConversion(t *testing.T) {
	cases := map[int64]float64{
		0:    0,
		1500: 1.5,
		3200: 3.2,
		4750: 4.75,
	}
	for ms, want := range cases {
		if got := Seconds(ms); got != want {
			t.Fatalf("Seconds(%d) = %v, want %v", ms, got, want)
		}
	}
}

func TestResolveSpan(t *testing.T) {
	slots := eaf.TimeSlots{"ts1": 2000, "ts2": 4750}
	span, err := Resolve(slots, eaf.Utterance{AnnotationID: "a1", StartSlot: "ts1", EndSlot: "ts2", Text: " hi "})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if span.Start != 2.0 || span.End != 4.75 {
		t.Fatalf("unexpected offsets: %v-%v", span.Start, span.End)
	}
	if span.Duration() != 2750*time.Millisecond {
		t.Fatalf("unexpected duration: %v", span.Duration())
	}
	if span.Text != " hi " || span.StartSlot != "ts1" || span.EndSlot != "ts2" || span.AnnotationID != "a1" {
		t.Fatalf("unexpected span fields: %+v", span)
	}
}

func TestResolveErrors(t *testing.T) {
	slots := eaf.TimeSlots{"ts1": 1000, "ts2": 500, "ts3": 1000}
	cases := []struct {
		name string
		utt  eaf.Utterance
		want error
	}{
		{"missing start", eaf.Utterance{StartSlot: "nope", EndSlot: "ts1"}, ErrMissingSlot},
		{"missing end", eaf.Utterance{StartSlot: "ts1", EndSlot: "nope"}, ErrMissingSlot},
		{"inverted", eaf.Utterance{StartSlot: "ts1", EndSlot: "ts2"}, ErrInvertedSpan},
		{"empty", eaf.Utterance{StartSlot: "ts1", EndSlot: "ts3"}, ErrEmptySpan},
		{"same slot", eaf.Utterance{StartSlot: "ts1", EndSlot: "ts1"}, ErrEmptySpan},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Resolve(slots, tc.utt); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResolveAllSkipsFailures(t *testing.T) {
	slots := eaf.TimeSlots{"ts1": 0, "ts2": 3200, "ts4": 5000}
	utts := []eaf.Utterance{
		{StartSlot: "ts1", EndSlot: "ts2", Text: "first"},
		{StartSlot: "ts3", EndSlot: "ts4", Text: "unaligned"},
		{StartSlot: "ts2", EndSlot: "ts4", Text: "second"},
	}
	spans, failures := ResolveAll(slots, utts)
	if len(spans) != 2 || spans[0].Text != "first" || spans[1].Text != "second" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
	if len(failures) != 1 || failures[0].Utterance.Text != "unaligned" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if !errors.Is(failures[0].Err, ErrMissingSlot) {
		t.Fatalf("expected missing slot error, got %v", failures[0].Err)
	}
}
