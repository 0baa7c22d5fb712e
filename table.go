package steuer

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// BracketTable is an ordered, validated set of brackets for one tariff.
//
// A table is either a state table, bound to a canton and a scope (income or
// wealth), or the federal income table, which instead may carry a per-child
// deduction. Tables are immutable snapshots: every mutation in the Registry
// produces a new value, so an evaluation started before an administrative
// edit keeps seeing a consistent table.
type BracketTable struct {
	id          string
	name        string
	description string

	canton string // state tables only
	scope  Scope  // state tables only

	federal        bool
	childDeduction *Money // federal only, nil when the tariff grants none

	rows []Bracket // canonical: sorted ascending by threshold, unique

	updatedAt time.Time
	rev       uint64 // registry revision of the last write, breaks clock ties
}

func (t *BracketTable) ID() string          { return t.id }
func (t *BracketTable) Name() string        { return t.name }
func (t *BracketTable) Description() string { return t.description }
func (t *BracketTable) Canton() string      { return t.canton }
func (t *BracketTable) Scope() Scope        { return t.scope }
func (t *BracketTable) Federal() bool       { return t.federal }
func (t *BracketTable) UpdatedAt() time.Time { return t.updatedAt }

// ChildDeduction returns the per-child deduction of a federal table, or nil
// when the tariff grants none. Nil is distinct from a zero deduction.
func (t *BracketTable) ChildDeduction() *Money {
	if t.childDeduction == nil {
		return nil
	}
	d := *t.childDeduction
	return &d
}

// Rows returns a copy of the canonical row list.
func (t *BracketTable) Rows() []Bracket { return slices.Clone(t.rows) }

func (t *BracketTable) String() string {
	if t.federal {
		return fmt.Sprintf("federal table %q (%d brackets)", t.name, len(t.rows))
	}
	return fmt.Sprintf("%s %s table %q (%d brackets)", t.canton, t.scope, t.name, len(t.rows))
}

// clone returns a copy of the table sharing no mutable state with the original.
func (t *BracketTable) clone() *BracketTable {
	c := *t
	c.rows = slices.Clone(t.rows)
	if t.childDeduction != nil {
		d := *t.childDeduction
		c.childDeduction = &d
	}
	return &c
}

// Evaluate finds the bracket with the greatest threshold at or below amount
// and returns the liability it yields there.
//
// Below the smallest threshold the lowest bracket's base amount applies with
// zero marginal. An empty table yields zero liability and ok=false.
func (t *BracketTable) Evaluate(amount Money) (liability Money, matched Bracket, ok bool) {
	if len(t.rows) == 0 {
		return Money{}, Bracket{}, false
	}
	// first row strictly above amount; the match is the one just before.
	i := sort.Search(len(t.rows), func(i int) bool {
		return t.rows[i].Threshold.GreaterThan(amount)
	})
	if i == 0 {
		low := t.rows[0]
		return low.BaseAmount, low, true
	}
	matched = t.rows[i-1]
	return matched.liabilityAt(amount), matched, true
}

// ReplaceRows validates rows as the table's new full set and returns the new
// canonical list. It is pure: the caller (the Registry) persists the result.
func (t *BracketTable) ReplaceRows(rows []Bracket) ([]Bracket, error) {
	return ValidateRows(rows)
}

// UpsertRow adds a row, or replaces the existing row with the same threshold,
// and returns the new canonical list.
func (t *BracketTable) UpsertRow(row Bracket) ([]Bracket, error) {
	if _, err := ValidateRows([]Bracket{row}); err != nil {
		return nil, err
	}
	return mergeRows(t.rows, []Bracket{row}), nil
}

// RemoveRow removes the row at the given index of the canonical list and
// returns the new list.
func (t *BracketTable) RemoveRow(index int) ([]Bracket, error) {
	if index < 0 || index >= len(t.rows) {
		return nil, errValidation("index", "no bracket at index %d, table has %d", index, len(t.rows))
	}
	return slices.Delete(t.Rows(), index, index+1), nil
}

// ImportMode selects how imported rows combine with the existing row set.
type ImportMode int

const (
	// Replace discards existing rows and uses the imported set as the new full set.
	Replace ImportMode = iota
	// Merge unions imported rows into existing ones keyed by threshold, with
	// imported rows overriding existing ones at equal thresholds.
	Merge
)

func (m ImportMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Merge:
		return "merge"
	default:
		return "unknown"
	}
}

// ParseImportMode parses a string into an ImportMode.
func ParseImportMode(s string) (ImportMode, error) {
	switch s {
	case "replace":
		return Replace, nil
	case "merge":
		return Merge, nil
	default:
		return 0, fmt.Errorf("unknown import mode: %q", s)
	}
}

// ImportRows combines validated rows with the table's rows according to mode
// and returns the new canonical list. It is pure, and all-or-nothing by
// construction: any validation failure leaves the table untouched.
func (t *BracketTable) ImportRows(rows []Bracket, mode ImportMode) ([]Bracket, error) {
	rows, err := ValidateRows(rows)
	if err != nil {
		return nil, err
	}
	switch mode {
	case Replace:
		return rows, nil
	case Merge:
		return mergeRows(t.rows, rows), nil
	default:
		return nil, fmt.Errorf("unknown import mode: %d", mode)
	}
}
