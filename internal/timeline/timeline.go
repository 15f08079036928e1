// Package timeline turns utterance slot references into second offsets.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"eafcut/internal/eaf"
)

var (
	// ErrMissingSlot is returned when an utterance references a slot id that
	// has no time value in the document.
	ErrMissingSlot = errors.New("time slot not found")
	// ErrInvertedSpan is returned when the end slot precedes the start slot.
	ErrInvertedSpan = errors.New("span ends before it starts")
	// ErrEmptySpan is returned when both slots resolve to the same offset.
	ErrEmptySpan = errors.New("span has zero length")
)

// Span is a resolved utterance: offsets in seconds plus the verbatim text.
type Span struct {
	StartSlot    string
	EndSlot      string
	AnnotationID string
	Start        float64
	End          float64
	Text         string
}

// Duration returns the nominal clip length.
func (s Span) Duration() time.Duration {
	return time.Duration((s.End - s.Start) * float64(time.Second))
}

// Failure records an utterance that could not be resolved.
type Failure struct {
	Utterance eaf.Utterance
	Err       error
}

// Seconds converts a millisecond slot value to seconds.
func Seconds(ms int64) float64 {
	return float64(ms) / 1000.0
}

// Resolve maps the utterance's slot ids onto second offsets.
func Resolve(slots eaf.TimeSlots, utt eaf.Utterance) (Span, error) {
	startMS, ok := slots.Lookup(utt.StartSlot)
	if !ok {
		return Span{}, fmt.Errorf("%w: %q", ErrMissingSlot, utt.StartSlot)
	}
	endMS, ok := slots.Lookup(utt.EndSlot)
	if !ok {
		return Span{}, fmt.Errorf("%w: %q", ErrMissingSlot, utt.EndSlot)
	}
	span := Span{
		StartSlot:    utt.StartSlot,
		EndSlot:      utt.EndSlot,
		AnnotationID: utt.AnnotationID,
		Start:        Seconds(startMS),
		End:          Seconds(endMS),
		Text:         utt.Text,
	}
	switch {
	case endMS < startMS:
		return span, fmt.Errorf("%w: %s (%dms) > %s (%dms)", ErrInvertedSpan, utt.StartSlot, startMS, utt.EndSlot, endMS)
	case endMS == startMS:
		return span, fmt.Errorf("%w: %s and %s both at %dms", ErrEmptySpan, utt.StartSlot, utt.EndSlot, startMS)
	}
	return span, nil
}

// ResolveAll resolves every utterance, keeping document order. Utterances
// that fail are reported separately and do not stop the rest.
func ResolveAll(slots eaf.TimeSlots, utts []eaf.Utterance) ([]Span, []Failure) {
	spans := make([]Span, 0, len(utts))
	var failures []Failure
	for _, utt := range utts {
		span, err := Resolve(slots, utt)
		if err != nil {
			failures = append(failures, Failure{Utterance: utt, Err: err})
			continue
		}
		spans = append(spans, span)
	}
	return spans, failures
}
