package steuer

import (
	"errors"
	"strings"
	"testing"
)

// setupZurichStore builds a store with a full data set for Zürich: state
// income and wealth tables, the federal table with a child deduction, the
// municipal rate of the city and the cantonal personal tax.
func setupZurichStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	mustCreate := func(spec TableSpec) {
		t.Helper()
		if _, err := s.Tariffs.Create(spec); err != nil {
			t.Fatalf("Create(%q) failed: %v", spec.Name, err)
		}
	}
	mustCreate(TableSpec{
		Name: "Grundtarif 2025", Canton: "ZH", Scope: Income,
		Rows: []Bracket{row(0, 0, 2), row(100000, 2000, 5)},
	})
	mustCreate(TableSpec{
		Name: "Vermögenssteuer 2025", Canton: "ZH", Scope: Wealth,
		Rows: []Bracket{row(0, 0, 0), row(1000000, 500, 1)},
	})
	deduction := M(6500)
	mustCreate(TableSpec{
		Name: "DBST 2025", Federal: true, ChildDeduction: &deduction,
		Rows: []Bracket{row(0, 0, 1), row(100000, 1000, 4)},
	})

	if _, err := s.Rates.CreateMunicipal(MunicipalRate{
		Municipality: "Zürich", Canton: "ZH",
		BaseRate: 119.5,
		RefRate:  pct(10),
	}); err != nil {
		t.Fatalf("CreateMunicipal() failed: %v", err)
	}
	if _, err := s.Rates.CreatePersonal(PersonalTax{Canton: "ZH", Amount: M(24)}); err != nil {
		t.Fatalf("CreatePersonal() failed: %v", err)
	}
	return s
}

func TestCalculator_Compute(t *testing.T) {
	s := setupZurichStore(t)

	b, err := s.Calculator().Compute(Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(150000),
		TaxableWealth: M(500000),
	})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	// state income: 2000 + 50000/100*5 = 4500, state wealth: 0.
	if !b.StateIncomeTax.Equal(M(4500)) {
		t.Errorf("state income tax = %s, want 4500", b.StateIncomeTax)
	}
	if !b.StateWealthTax.IsZero() {
		t.Errorf("state wealth tax = %s, want 0", b.StateWealthTax)
	}
	// municipal: 119.5% of 4500 = 5377.5, no confession so no church tax.
	if !b.MunicipalTax.Equal(M(5377.5)) {
		t.Errorf("municipal tax = %s, want 5377.5", b.MunicipalTax)
	}
	if !b.ChurchTax.IsZero() {
		t.Errorf("church tax = %s, want 0 without confession", b.ChurchTax)
	}
	// federal: 1000 + 50000/100*4 = 3000, no children.
	if !b.FederalTax.Equal(M(3000)) {
		t.Errorf("federal tax = %s, want 3000", b.FederalTax)
	}
	// personal: single adult household.
	if !b.PersonalTax.Equal(M(24)) {
		t.Errorf("personal tax = %s, want 24", b.PersonalTax)
	}
	want := M(4500 + 5377.5 + 3000 + 24)
	if !b.Total.Equal(want) {
		t.Errorf("total = %s, want %s", b.Total, want)
	}
	if len(b.Warnings) != 0 {
		t.Errorf("complete data must produce no warnings, got %v", b.Warnings)
	}
}

func TestCalculator_Compute_ChurchAndHousehold(t *testing.T) {
	s := setupZurichStore(t)

	b, err := s.Calculator().Compute(Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(150000),
		Confession:    Reformed,
		NumChildren:   2,
		NumAdults:     2,
	})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	// church: 10% of the 4500 state tax.
	if !b.ChurchTax.Equal(M(450)) {
		t.Errorf("church tax = %s, want 450", b.ChurchTax)
	}
	// federal: 3000 - 2*6500 is negative, floored at zero.
	if !b.FederalTax.IsZero() {
		t.Errorf("federal tax = %s, want 0 after the child deduction floor", b.FederalTax)
	}
	// personal: once per adult.
	if !b.PersonalTax.Equal(M(48)) {
		t.Errorf("personal tax = %s, want 48 for two adults", b.PersonalTax)
	}
}

func TestCalculator_Compute_PartialDeduction(t *testing.T) {
	s := setupZurichStore(t)

	b, err := s.Calculator().Compute(Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(150000),
		NumChildren:   1,
	})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	// federal: 3000 - 6500 floored, not 3000 - 6500 = -3500.
	if !b.FederalTax.IsZero() {
		t.Errorf("federal tax = %s, want 0", b.FederalTax)
	}

	// with a smaller deduction the remainder is due.
	small := M(1000)
	federalID := "federal-dbst-2025"
	if _, err := s.Tariffs.Update(federalID, TablePatch{ChildDeduction: &small}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	b, err = s.Calculator().Compute(Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(150000),
		NumChildren:   1,
	})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !b.FederalTax.Equal(M(2000)) {
		t.Errorf("federal tax = %s, want 2000", b.FederalTax)
	}
}

func TestCalculator_Compute_NoChildrenIgnoresDeduction(t *testing.T) {
	// with no children a 6500 per-child deduction must not change the federal
	// tax: the result equals a computation against a deduction-less table.
	in := Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(150000),
	}

	withDeduction := setupZurichStore(t)
	got, err := withDeduction.Calculator().Compute(in)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	without := setupZurichStore(t)
	if _, err := without.Tariffs.Update("federal-dbst-2025", TablePatch{ClearChildDeduction: true}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	want, err := without.Calculator().Compute(in)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	if !got.FederalTax.Equal(want.FederalTax) {
		t.Errorf("federal tax with an unused deduction = %s, want %s as without one", got.FederalTax, want.FederalTax)
	}
	if !got.Total.Equal(want.Total) {
		t.Errorf("total with an unused deduction = %s, want %s as without one", got.Total, want.Total)
	}
	if len(want.Warnings) != 0 {
		t.Errorf("a nil deduction is not missing data, got warnings %v", want.Warnings)
	}
}

func TestCalculator_Compute_MissingIncomeTariff(t *testing.T) {
	s := setupZurichStore(t)
	_, err := s.Calculator().Compute(Input{Canton: "AG", TaxableIncome: M(50000)})
	var merr *MissingTariffError
	if !errors.As(err, &merr) {
		t.Fatalf("Compute() = %v, want a MissingTariffError", err)
	}
	if merr.Canton != "AG" || merr.Scope != Income {
		t.Errorf("MissingTariffError = %+v, want canton AG scope income", merr)
	}
}

func TestCalculator_Compute_Warnings(t *testing.T) {
	// A store with only the mandatory income tariff: every optional component
	// contributes zero and is reported.
	s := NewStore()
	if _, err := s.Tariffs.Create(TableSpec{
		Name: "Grundtarif 2025", Canton: "ZH", Scope: Income,
		Rows: []Bracket{row(0, 0, 2)},
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	b, err := s.Calculator().Compute(Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(50000),
	})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !b.Total.Equal(M(1000)) {
		t.Errorf("total = %s, want the state income tax alone", b.Total)
	}
	if len(b.Warnings) != 4 {
		t.Fatalf("got %d warnings, want 4 (wealth, municipal, federal, personal): %v", len(b.Warnings), b.Warnings)
	}
	for _, want := range []string{"wealth", "municipal", "federal", "personal"} {
		found := false
		for _, w := range b.Warnings {
			if strings.Contains(string(w), want) {
				found = true
			}
		}
		if !found {
			t.Errorf("no warning mentions %q: %v", want, b.Warnings)
		}
	}
}

func TestCalculator_Compute_RejectsInput(t *testing.T) {
	s := setupZurichStore(t)
	testCases := []struct {
		name string
		in   Input
	}{
		{"bad canton", Input{Canton: "Zurich"}},
		{"negative income", Input{Canton: "ZH", TaxableIncome: M(-1)}},
		{"negative wealth", Input{Canton: "ZH", TaxableWealth: M(-1)}},
		{"negative children", Input{Canton: "ZH", NumChildren: -1}},
		{"negative adults", Input{Canton: "ZH", NumAdults: -1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Calculator().Compute(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Compute() = %v, want a ValidationError", err)
			}
		})
	}
}

func TestCalculator_SnapshotIsolation(t *testing.T) {
	s := setupZurichStore(t)
	calc := s.Calculator()

	// mutations after the snapshot must not affect the running calculator.
	if err := s.Tariffs.Delete("zh-income-grundtarif-2025"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	b, err := calc.Compute(Input{Canton: "ZH", Municipality: "Zürich", TaxableIncome: M(50000)})
	if err != nil {
		t.Fatalf("Compute() on the old snapshot failed: %v", err)
	}
	if !b.StateIncomeTax.Equal(M(1000)) {
		t.Errorf("state income tax = %s, want the snapshot's 1000", b.StateIncomeTax)
	}

	// a fresh calculator sees the deletion.
	var merr *MissingTariffError
	if _, err := s.Calculator().Compute(Input{Canton: "ZH", TaxableIncome: M(50000)}); !errors.As(err, &merr) {
		t.Errorf("Compute() on a fresh snapshot = %v, want a MissingTariffError", err)
	}
}

func TestCalculator_Compute_MunicipalMultiplier(t *testing.T) {
	// 119.5% of a 1000 state tax is exactly 1195.
	s := NewStore()
	if _, err := s.Tariffs.Create(TableSpec{
		Name: "Grundtarif 2025", Canton: "ZH", Scope: Income,
		Rows: []Bracket{row(0, 0, 2)},
	}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := s.Rates.CreateMunicipal(MunicipalRate{
		Municipality: "Zürich", Canton: "ZH", BaseRate: 119.5,
	}); err != nil {
		t.Fatalf("CreateMunicipal() failed: %v", err)
	}

	b, err := s.Calculator().Compute(Input{
		Canton:        "ZH",
		Municipality:  "Zürich",
		TaxableIncome: M(50000),
	})
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if !b.MunicipalTax.Equal(M(1195)) {
		t.Errorf("municipal tax = %s, want exactly 1195", b.MunicipalTax)
	}
}
