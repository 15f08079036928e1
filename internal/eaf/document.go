package eaf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrMalformed marks documents that could not be decoded.
var ErrMalformed = errors.New("malformed annotation document")

// MediaDescriptor is one HEADER/MEDIA_DESCRIPTOR element.
type MediaDescriptor struct {
	MIMEType         string `xml:"MIME_TYPE,attr"`
	MediaURL         string `xml:"MEDIA_URL,attr"`
	RelativeMediaURL string `xml:"RELATIVE_MEDIA_URL,attr"`
}

// TimeSlot is one TIME_ORDER/TIME_SLOT element. HasValue is false for
// unaligned slots that carry no TIME_VALUE.
type TimeSlot struct {
	ID       string
	Value    int64
	HasValue bool
}

// Utterance is one alignable annotation on a tier.
type Utterance struct {
	AnnotationID string
	StartSlot    string
	EndSlot      string
	Text         string
}

// Tier groups the alignable annotations of a single TIER element.
type Tier struct {
	ID         string
	Utterances []Utterance
}

// Document is the parsed form of one annotation file.
type Document struct {
	MediaDescriptors []MediaDescriptor
	Slots            []TimeSlot
	Tiers            []Tier
}

// xmlDocument accepts any root element name; only the child layout matters.
type xmlDocument struct {
	Header struct {
		Media []MediaDescriptor `xml:"MEDIA_DESCRIPTOR"`
	} `xml:"HEADER"`
	TimeOrder struct {
		Slots []struct {
			ID    string  `xml:"TIME_SLOT_ID,attr"`
			Value *string `xml:"TIME_VALUE,attr"`
		} `xml:"TIME_SLOT"`
	} `xml:"TIME_ORDER"`
	Tiers []struct {
		ID          string `xml:"TIER_ID,attr"`
		Annotations []struct {
			Alignable *struct {
				ID    string  `xml:"ANNOTATION_ID,attr"`
				Ref1  string  `xml:"TIME_SLOT_REF1,attr"`
				Ref2  string  `xml:"TIME_SLOT_REF2,attr"`
				Value *string `xml:"ANNOTATION_VALUE"`
			} `xml:"ALIGNABLE_ANNOTATION"`
		} `xml:"ANNOTATION"`
	} `xml:"TIER"`
}

// Parse opens and decodes the annotation document at path.
func Parse(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation document: %w", err)
	}
	defer file.Close()

	doc, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode reads one annotation document from r.
func Decode(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var raw xmlDocument
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	doc := &Document{
		MediaDescriptors: raw.Header.Media,
		Slots:            make([]TimeSlot, 0, len(raw.TimeOrder.Slots)),
		Tiers:            make([]Tier, 0, len(raw.Tiers)),
	}

	for _, slot := range raw.TimeOrder.Slots {
		entry := TimeSlot{ID: slot.ID}
		if slot.Value != nil {
			value, err := strconv.ParseInt(strings.TrimSpace(*slot.Value), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: time slot %q: invalid TIME_VALUE %q", ErrMalformed, slot.ID, *slot.Value)
			}
			entry.Value = value
			entry.HasValue = true
		}
		doc.Slots = append(doc.Slots, entry)
	}

	for _, rawTier := range raw.Tiers {
		tier := Tier{ID: rawTier.ID}
		for _, annotation := range rawTier.Annotations {
			alignable := annotation.Alignable
			if alignable == nil {
				continue
			}
			utt := Utterance{
				AnnotationID: alignable.ID,
				StartSlot:    alignable.Ref1,
				EndSlot:      alignable.Ref2,
			}
			if alignable.Value != nil {
				utt.Text = *alignable.Value
			}
			tier.Utterances = append(tier.Utterances, utt)
		}
		doc.Tiers = append(doc.Tiers, tier)
	}

	return doc, nil
}

// charsetReader maps the encoding named in the XML prolog onto a UTF-8 reader.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
