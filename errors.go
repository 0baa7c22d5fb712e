package steuer

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed or out-of-range field on a write.
// It is returned to the administrative caller verbatim for display.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errValidation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown id or key on a read or write.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// MissingTariffError reports that the income tariff required to compute a
// liability is absent. Unlike the optional overlays, income tax cannot be
// silently zero, so this aborts the whole computation.
type MissingTariffError struct {
	Canton string
	Scope  Scope
}

func (e *MissingTariffError) Error() string {
	return fmt.Sprintf("no %s tariff for canton %s", e.Scope, e.Canton)
}

// RowError is the diagnostic for a single malformed row of a bulk import.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

// ImportError is the batch failure of a bulk import. The import is
// all-or-nothing: when any row is malformed nothing is applied and the
// per-row diagnostics are carried here.
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "import rejected, %d invalid row(s)", len(e.Rows))
	for _, r := range e.Rows {
		b.WriteString("\n  ")
		b.WriteString(r.Error())
	}
	return b.String()
}

// Warning is a non-fatal data-completeness notice: some optional tariff data
// (wealth table, municipal rate, federal table, personal tax) is absent and
// contributed zero. Warnings are accumulated and returned alongside a
// successful breakdown, never as an error.
type Warning string

func warningf(format string, args ...any) Warning {
	return Warning(fmt.Sprintf(format, args...))
}
