// Package validation turns the rules attached to field descriptors into a
// path-keyed ErrorMap. Top-level fields are keyed by their Key, fields inside
// repeatable entries by key.index.nested (see EntryPath). Validation is
// exhaustive: every violation is reported, not just the first.
package validation
