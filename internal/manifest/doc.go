// Package manifest records batch runs and the clips they produced in a
// SQLite ledger so downstream tooling can find every clip, its source
// document and its text without rescanning the output folder.
//
// The schema is applied through embedded, ordered SQL migrations tracked in
// the schema_migrations table.
package manifest
