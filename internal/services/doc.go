// Package services defines shared utilities consumed by the pipeline stages
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, document paths, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent per-document outcomes (skipped vs failed).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
