// Package eaf parses ELAN annotation documents (.eaf) into the structures the
// clip pipeline needs: media descriptors, the time-slot table, and the
// alignable annotations of a tier.
//
// Documents are decoded with encoding/xml. Non-UTF-8 encodings declared in the
// XML prolog are resolved through the IANA charset index from x/text.
//
// Key types:
//   - Document: one parsed annotation file, immutable after Decode
//   - TimeSlots: slot id to millisecond lookup (last duplicate wins)
//   - Utterance: one alignable annotation on the selected tier
package eaf
