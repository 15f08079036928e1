package eaf

import "strings"

// DefaultPreferredMIMEType is the descriptor type preferred when no other
// preference is supplied.
const DefaultPreferredMIMEType = "audio/x-wav"

// TimeSlots maps slot ids to millisecond offsets.
type TimeSlots map[string]int64

// Lookup returns the millisecond value of id.
func (t TimeSlots) Lookup(id string) (int64, bool) {
	v, ok := t[id]
	return v, ok
}

// MediaReference returns the media descriptor the clips are cut from: the
// first descriptor whose MIME type matches one of preferred (in preference
// order), else the first descriptor in the document. ok is false when the
// document declares no media at all.
func (d *Document) MediaReference(preferred ...string) (MediaDescriptor, bool) {
	if len(d.MediaDescriptors) == 0 {
		return MediaDescriptor{}, false
	}
	if len(preferred) == 0 {
		preferred = []string{DefaultPreferredMIMEType}
	}
	for _, mime := range preferred {
		for _, desc := range d.MediaDescriptors {
			if strings.EqualFold(strings.TrimSpace(desc.MIMEType), mime) {
				return desc, true
			}
		}
	}
	return d.MediaDescriptors[0], true
}

// TimeSlots builds the slot lookup. Later duplicates overwrite earlier ones;
// slots without a time value are left out.
func (d *Document) TimeSlots() TimeSlots {
	slots := make(TimeSlots, len(d.Slots))
	for _, slot := range d.Slots {
		if !slot.HasValue {
			continue
		}
		slots[slot.ID] = slot.Value
	}
	return slots
}

// Utterances returns the alignable annotations of every tier whose id equals
// tierID, in document order.
func (d *Document) Utterances(tierID string) []Utterance {
	var out []Utterance
	for _, tier := range d.Tiers {
		if tier.ID != tierID {
			continue
		}
		out = append(out, tier.Utterances...)
	}
	return out
}

// HasTier reports whether a tier with the given id exists.
func (d *Document) HasTier(tierID string) bool {
	for _, tier := range d.Tiers {
		if tier.ID == tierID {
			return true
		}
	}
	return false
}

// TierIDs lists tier ids in document order.
func (d *Document) TierIDs() []string {
	ids := make([]string, 0, len(d.Tiers))
	for _, tier := range d.Tiers {
		ids = append(ids, tier.ID)
	}
	return ids
}
