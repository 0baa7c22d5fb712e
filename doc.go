// Package steuer provides a set of functions and types for maintaining and
// evaluating Swiss progressive tax tariffs. It is designed to be local-first,
// auditable, and transparent: every computed liability is returned as an
// itemized breakdown rather than a single opaque figure.
//
// The core functionalities include:
//   - Bracket Tables: Ordered, validated progressive schedules for cantonal
//     income and wealth taxes and for the federal income tax with its
//     per-child deduction.
//   - Tariff Registry: Identity-keyed storage and lifecycle of bracket
//     tables, with atomic bulk import in replace or merge mode.
//   - Overlay Rates: Municipal multiplier rates (including per-confession
//     church rates) and per-capita personal taxes, keyed by municipality
//     and canton.
//   - Liability Calculator: Composition of a bracket evaluation, the overlay
//     rates and the household profile into a single total with a full
//     component breakdown.
//   - Data Persistence: Encoding and decoding of the whole tariff store to
//     and from a human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `sts` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package steuer
