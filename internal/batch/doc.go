// Package batch drives the clip pipeline over a folder of annotation
// documents.
//
// Documents are processed one at a time in lexicographic order. Each runs
// inside its own error boundary: parse errors, media gate skips, dropped
// utterances, cutter failures and panics become a per-document Outcome and
// the batch moves on. Run only returns an error for problems that affect the
// whole batch (unreadable input folder, output folder locked or not writable,
// cancelled context).
//
// The output folder is locked with a lock file for the duration of a run so
// two runs cannot race on clip names.
package batch
