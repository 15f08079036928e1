// Package media resolves the recording an annotation document points at and
// decides whether clips can be cut from it.
//
// Locate applies the gates in a fixed order and stops at the first one that
// fails: no media reference, missing file, excluded container extension, and
// (when a Prober is configured) no audio stream. Every gate error wraps
// services.ErrValidation so the batch driver records the document as skipped.
package media
