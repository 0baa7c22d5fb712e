package steuer

import (
	"testing"
)

// newStateTable creates a canonical income table for testing.
func newStateTable(t *testing.T, canton string, rows ...Bracket) *BracketTable {
	t.Helper()
	table, err := NewRegistry().Create(TableSpec{
		Name:   "Grundtarif 2025",
		Canton: canton,
		Scope:  Income,
		Rows:   rows,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return table
}

func TestBracketTable_Evaluate(t *testing.T) {
	table := newStateTable(t, "ZH",
		row(0, 0, 2),
		row(100000, 2000, 5),
	)

	testCases := []struct {
		name   string
		amount Money
		want   Money
	}{
		{"zero", M(0), M(0)},
		{"within first bracket", M(50000), M(1000)},
		{"exactly at a threshold", M(100000), M(2000)},
		{"within second bracket", M(150000), M(4500)},
		{"fractional excess", M(100050), M(2002.5)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, ok := table.Evaluate(tc.amount)
			if !ok {
				t.Fatalf("Evaluate(%s) returned ok=false", tc.amount)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Evaluate(%s) = %s, want %s", tc.amount, got, tc.want)
			}
		})
	}
}

func TestBracketTable_Evaluate_BelowLowestThreshold(t *testing.T) {
	// When the schedule starts above zero, amounts below the first threshold
	// pay the lowest bracket's base with no marginal part.
	table := newStateTable(t, "ZH", row(10000, 100, 2))

	got, matched, ok := table.Evaluate(M(5000))
	if !ok {
		t.Fatal("Evaluate() returned ok=false on a non-empty table")
	}
	if !got.Equal(M(100)) {
		t.Errorf("Evaluate(5000) = %s, want the lowest base 100", got)
	}
	if !matched.Threshold.Equal(M(10000)) {
		t.Errorf("matched bracket threshold = %s, want 10000", matched.Threshold)
	}
}

func TestBracketTable_Evaluate_Empty(t *testing.T) {
	table := newStateTable(t, "ZH")
	got, _, ok := table.Evaluate(M(50000))
	if ok {
		t.Error("Evaluate() on an empty table returned ok=true")
	}
	if !got.IsZero() {
		t.Errorf("Evaluate() on an empty table = %s, want 0", got)
	}
}

func TestBracketTable_Evaluate_Monotonic(t *testing.T) {
	table := newStateTable(t, "ZH",
		row(0, 0, 1),
		row(30000, 300, 3),
		row(80000, 1800, 6),
		row(150000, 6000, 9),
	)
	prev := M(0)
	for amount := 0; amount <= 200000; amount += 2500 {
		got, _, _ := table.Evaluate(M(amount))
		if got.LessThan(prev) {
			t.Fatalf("liability decreases at %d: %s < %s", amount, got, prev)
		}
		prev = got
	}
}

func TestBracketTable_UpsertRow(t *testing.T) {
	table := newStateTable(t, "ZH", row(0, 0, 2), row(100000, 2000, 5))

	rows, err := table.UpsertRow(row(100000, 2100, 5))
	if err != nil {
		t.Fatalf("UpsertRow() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("UpsertRow() at an existing threshold: got %d rows, want 2", len(rows))
	}
	if !rows[1].BaseAmount.Equal(M(2100)) {
		t.Errorf("UpsertRow() did not replace the row, got base %s", rows[1].BaseAmount)
	}

	rows, err = table.UpsertRow(row(200000, 7000, 8))
	if err != nil {
		t.Fatalf("UpsertRow() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("UpsertRow() at a new threshold: got %d rows, want 3", len(rows))
	}

	// the table itself stays untouched, mutations go through the registry.
	if len(table.Rows()) != 2 {
		t.Errorf("UpsertRow() mutated the table in place")
	}
}

func TestBracketTable_RemoveRow(t *testing.T) {
	table := newStateTable(t, "ZH", row(0, 0, 2), row(100000, 2000, 5))

	rows, err := table.RemoveRow(0)
	if err != nil {
		t.Fatalf("RemoveRow(0) failed: %v", err)
	}
	if len(rows) != 1 || !rows[0].Threshold.Equal(M(100000)) {
		t.Errorf("RemoveRow(0) = %v, want only the 100000 row", rows)
	}

	if _, err := table.RemoveRow(2); err == nil {
		t.Error("RemoveRow() out of range succeeded, want an error")
	}
}

func TestBracketTable_ImportRows(t *testing.T) {
	table := newStateTable(t, "ZH", row(0, 0, 2), row(100000, 2000, 5))

	replaced, err := table.ImportRows([]Bracket{row(0, 0, 3)}, Replace)
	if err != nil {
		t.Fatalf("ImportRows(Replace) failed: %v", err)
	}
	if len(replaced) != 1 {
		t.Errorf("Replace: got %d rows, want the import to become the full set", len(replaced))
	}

	merged, err := table.ImportRows([]Bracket{row(0, 0, 3), row(200000, 7000, 8)}, Merge)
	if err != nil {
		t.Fatalf("ImportRows(Merge) failed: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("Merge: got %d rows, want 3", len(merged))
	}
	if !merged[0].Per100Amount.Equal(M(3)) {
		t.Errorf("Merge: imported row must override the existing one, got per100 %s", merged[0].Per100Amount)
	}

	// any invalid row rejects the whole import.
	if _, err := table.ImportRows([]Bracket{row(0, 0, 3), row(-1, 0, 1)}, Merge); err == nil {
		t.Error("ImportRows() with an invalid row succeeded, want an error")
	}
}

func TestRegistry_ImportRows_MergeThenReplaceIdempotent(t *testing.T) {
	// re-importing a merged canonical set in replace mode must reproduce the
	// table exactly.
	r := NewRegistry()
	table, err := r.Create(TableSpec{
		Name:   "Grundtarif 2025",
		Canton: "ZH",
		Scope:  Income,
		Rows:   []Bracket{row(0, 0, 2), row(100000, 2000, 5)},
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	merged, err := r.ImportRows(table.ID(), []Bracket{row(100000, 2100, 5), row(200000, 7100, 8)}, Merge)
	if err != nil {
		t.Fatalf("ImportRows(Merge) failed: %v", err)
	}
	replaced, err := r.ImportRows(table.ID(), merged.Rows(), Replace)
	if err != nil {
		t.Fatalf("ImportRows(Replace) of the merged set failed: %v", err)
	}

	mergedRows, replacedRows := merged.Rows(), replaced.Rows()
	if len(mergedRows) != len(replacedRows) {
		t.Fatalf("replace changed the row count: %d vs %d", len(replacedRows), len(mergedRows))
	}
	for i := range mergedRows {
		if !mergedRows[i].Threshold.Equal(replacedRows[i].Threshold) ||
			!mergedRows[i].BaseAmount.Equal(replacedRows[i].BaseAmount) ||
			!mergedRows[i].Per100Amount.Equal(replacedRows[i].Per100Amount) ||
			mergedRows[i].Note != replacedRows[i].Note {
			t.Errorf("row %d changed: %+v vs %+v", i, replacedRows[i], mergedRows[i])
		}
	}
}
