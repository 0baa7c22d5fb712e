package steuer

import (
	"errors"
	"testing"
)

// pct is shorthand for an optional percentage.
func pct(v float64) *Percent {
	p := Percent(v)
	return &p
}

func TestRates_Municipal_CRUD(t *testing.T) {
	r := NewRates()

	rate, err := r.CreateMunicipal(MunicipalRate{
		Municipality: "Zürich",
		Canton:       "ZH",
		BaseRate:     119.5,
		RefRate:      pct(10),
	})
	if err != nil {
		t.Fatalf("CreateMunicipal() failed: %v", err)
	}
	if rate.ID != "zrich-zh" {
		t.Errorf("got id %q, want the slug derived from municipality and canton", rate.ID)
	}

	// duplicate (municipality, canton) key.
	if _, err := r.CreateMunicipal(MunicipalRate{Municipality: "Zürich", Canton: "ZH", BaseRate: 100}); err == nil {
		t.Error("CreateMunicipal() with a duplicate key succeeded, want an error")
	}
	// same municipality name in another canton is a different key.
	if _, err := r.CreateMunicipal(MunicipalRate{Municipality: "Zürich", Canton: "BE", BaseRate: 100}); err != nil {
		t.Errorf("CreateMunicipal() in another canton failed: %v", err)
	}

	updated, err := r.UpdateMunicipal(rate.ID, MunicipalPatch{
		BaseRate:     pct(120),
		CathRate:     pct(11),
		ClearRefRate: true,
	})
	if err != nil {
		t.Fatalf("UpdateMunicipal() failed: %v", err)
	}
	if !updated.BaseRate.Equal(120) {
		t.Errorf("base rate = %s, want 120", updated.BaseRate)
	}
	if updated.RefRate != nil {
		t.Error("ClearRefRate must reset the rate to unpublished")
	}
	if updated.CathRate == nil || !updated.CathRate.Equal(11) {
		t.Errorf("cath rate = %v, want 11", updated.CathRate)
	}

	if err := r.DeleteMunicipal(rate.ID); err != nil {
		t.Fatalf("DeleteMunicipal() failed: %v", err)
	}
	var nf *NotFoundError
	if _, err := r.GetMunicipal(rate.ID); !errors.As(err, &nf) {
		t.Errorf("GetMunicipal() after delete = %v, want a NotFoundError", err)
	}
}

func TestRates_Municipal_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		rate MunicipalRate
	}{
		{"empty municipality", MunicipalRate{Canton: "ZH", BaseRate: 100}},
		{"bad canton", MunicipalRate{Municipality: "Zürich", Canton: "Zurich", BaseRate: 100}},
		{"negative base", MunicipalRate{Municipality: "Zürich", Canton: "ZH", BaseRate: -1}},
		{"negative church rate", MunicipalRate{Municipality: "Zürich", Canton: "ZH", BaseRate: 100, CathRate: pct(-1)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRates().CreateMunicipal(tc.rate)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("CreateMunicipal() = %v, want a ValidationError", err)
			}
		})
	}
}

func TestRates_ImportMunicipal_Atomic(t *testing.T) {
	r := NewRates()
	if _, err := r.CreateMunicipal(MunicipalRate{Municipality: "Bern", Canton: "BE", BaseRate: 154}); err != nil {
		t.Fatalf("CreateMunicipal() failed: %v", err)
	}

	err := r.ImportMunicipal([]MunicipalRate{
		{Municipality: "Bern", Canton: "BE", BaseRate: 155},
		{Municipality: "", Canton: "BE", BaseRate: 100},
	})
	var ierr *ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("ImportMunicipal() = %v, want an ImportError", err)
	}
	if len(ierr.Rows) != 1 || ierr.Rows[0].Index != 1 {
		t.Errorf("ImportError rows = %v, want the diagnostic for row 1", ierr.Rows)
	}
	got, _ := r.GetMunicipal("bern-be")
	if !got.BaseRate.Equal(154) {
		t.Errorf("a failed import must leave the store untouched, base rate = %s", got.BaseRate)
	}

	// a valid import upserts existing keys.
	if err := r.ImportMunicipal([]MunicipalRate{{Municipality: "Bern", Canton: "BE", BaseRate: 155}}); err != nil {
		t.Fatalf("ImportMunicipal() failed: %v", err)
	}
	got, _ = r.GetMunicipal("bern-be")
	if !got.BaseRate.Equal(155) {
		t.Errorf("after the import base rate = %s, want 155", got.BaseRate)
	}
}

func TestRates_ImportMunicipal_LeavesArgumentUntouched(t *testing.T) {
	r := NewRates()
	in := []MunicipalRate{{Municipality: "Bern", Canton: "BE", BaseRate: 154}}
	if err := r.ImportMunicipal(in); err != nil {
		t.Fatalf("ImportMunicipal() failed: %v", err)
	}
	if in[0].ID != "" {
		t.Errorf("ImportMunicipal() wrote id %q into the caller's slice", in[0].ID)
	}
	if _, err := r.GetMunicipal("bern-be"); err != nil {
		t.Errorf("the imported rate is not stored: %v", err)
	}
}

func TestEffectiveChurchRate(t *testing.T) {
	rate := MunicipalRate{
		Municipality: "Zürich",
		Canton:       "ZH",
		BaseRate:     119.5,
		RefRate:      pct(10),
		CathRate:     pct(11),
	}
	testCases := []struct {
		name       string
		confession Confession
		want       Percent
	}{
		{"no confession", NoConfession, 0},
		{"reformed", Reformed, 10},
		{"catholic", Catholic, 11},
		{"unpublished rate defaults to zero", ChristianCatholic, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveChurchRate(rate, tc.confession); !got.Equal(tc.want) {
				t.Errorf("EffectiveChurchRate() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRates_Personal_CRUD(t *testing.T) {
	r := NewRates()

	tax, err := r.CreatePersonal(PersonalTax{Canton: "ZH", Amount: M(24)})
	if err != nil {
		t.Fatalf("CreatePersonal() failed: %v", err)
	}
	if tax.ID != "zh" {
		t.Errorf("got id %q, want the lowercase canton", tax.ID)
	}

	// at most one personal tax per canton.
	if _, err := r.CreatePersonal(PersonalTax{Canton: "ZH", Amount: M(30)}); err == nil {
		t.Error("CreatePersonal() twice for the same canton succeeded, want an error")
	}

	updated, err := r.UpdatePersonal("zh", M(30))
	if err != nil {
		t.Fatalf("UpdatePersonal() failed: %v", err)
	}
	if !updated.Amount.Equal(M(30)) {
		t.Errorf("amount = %s, want 30", updated.Amount)
	}

	if _, err := r.UpdatePersonal("zh", M(-1)); err == nil {
		t.Error("UpdatePersonal() with a negative amount succeeded, want an error")
	}

	if err := r.DeletePersonal("zh"); err != nil {
		t.Fatalf("DeletePersonal() failed: %v", err)
	}
	var nf *NotFoundError
	if _, err := r.GetPersonal("zh"); !errors.As(err, &nf) {
		t.Errorf("GetPersonal() after delete = %v, want a NotFoundError", err)
	}
}
