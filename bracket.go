package steuer

import (
	"log"
	"slices"
	"sort"
)

// Bracket is one threshold-indexed row of a progressive tax schedule.
//
// BaseAmount is the liability already accrued at Threshold, i.e. the sum of
// all lower brackets' contribution. Per100Amount is the marginal liability
// per 100 francs above Threshold.
type Bracket struct {
	Threshold    Money
	BaseAmount   Money
	Per100Amount Money
	Note         string
}

// liabilityAt evaluates this bracket at the given amount, assuming the amount
// falls at or above the bracket's threshold.
func (b Bracket) liabilityAt(amount Money) Money {
	return b.BaseAmount.Add(b.Per100Amount.Per100(amount.Sub(b.Threshold)))
}

// ValidateRows checks a row set for correctness and returns it in canonical
// form: sorted ascending by threshold with the last-written row winning on
// duplicate thresholds.
//
// Negative thresholds, base amounts or marginal amounts are rejected.
// Unsorted or non-monotonic input is not rejected: administrative data may be
// imperfect, so it is canonicalized, and a decreasing base amount is only
// logged as a data-quality defect.
func ValidateRows(rows []Bracket) ([]Bracket, error) {
	for _, row := range rows {
		if row.Threshold.IsNegative() {
			return nil, errValidation("threshold", "must not be negative, got %s", row.Threshold)
		}
		if row.BaseAmount.IsNegative() {
			return nil, errValidation("base_amount", "must not be negative, got %s", row.BaseAmount)
		}
		if row.Per100Amount.IsNegative() {
			return nil, errValidation("per_100_amount", "must not be negative, got %s", row.Per100Amount)
		}
	}
	rows = canonicalRows(rows)
	for i := 1; i < len(rows); i++ {
		if rows[i].BaseAmount.LessThan(rows[i-1].BaseAmount) {
			log.Printf("warning: base amount decreases from %s to %s at threshold %s",
				rows[i-1].BaseAmount, rows[i].BaseAmount, rows[i].Threshold)
		}
	}
	return rows, nil
}

// canonicalRows sorts rows ascending by threshold and de-duplicates equal
// thresholds, keeping the last-written row. It always returns a fresh slice.
func canonicalRows(rows []Bracket) []Bracket {
	sorted := slices.Clone(rows)
	// The sort is stable so that among equal thresholds the input order is
	// preserved and the last occurrence can win below.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold.LessThan(sorted[j].Threshold)
	})

	canonical := sorted[:0:0]
	for i, row := range sorted {
		if i+1 < len(sorted) && sorted[i+1].Threshold.Equal(row.Threshold) {
			continue // a later write for the same threshold wins
		}
		canonical = append(canonical, row)
	}
	return canonical
}

// mergeRows unions incoming rows into existing ones keyed by threshold, with
// incoming rows overriding existing ones at equal thresholds.
func mergeRows(existing, incoming []Bracket) []Bracket {
	merged := make([]Bracket, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	return canonicalRows(merged)
}
