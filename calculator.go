package steuer

// Input is the household profile and tax base a liability is computed for.
type Input struct {
	Canton       string
	Municipality string

	TaxableIncome Money
	TaxableWealth Money

	Confession  Confession
	NumChildren int
	// NumAdults scales the per-capita personal tax. Zero is treated as a
	// single-adult household.
	NumAdults int
}

// Breakdown is the itemized result of a liability computation. It is a
// first-class output: downstream consumers render every component, not just
// the total.
type Breakdown struct {
	StateIncomeTax Money
	StateWealthTax Money
	// MunicipalTax is the municipal multiplier applied to the state tax.
	// ChurchTax is the confession rate applied to the same base; together
	// they form the municipality's share.
	MunicipalTax Money
	ChurchTax    Money
	FederalTax   Money
	PersonalTax  Money

	Total Money

	// Warnings lists the optional tariff data that was absent and
	// contributed zero to the total.
	Warnings []Warning
}

// Calculator composes a bracket evaluation, the overlay rates and the
// household attributes into a total liability.
//
// A calculator works on snapshots taken at construction time: administrative
// mutations made afterwards do not affect its results. Take a fresh
// calculator to see them.
type Calculator struct {
	tariffs *TariffSnapshot
	rates   *RateSnapshot
}

// NewCalculator snapshots the registry and overlay stores.
func NewCalculator(registry *Registry, rates *Rates) *Calculator {
	return &Calculator{tariffs: registry.Snapshot(), rates: rates.Snapshot()}
}

// Compute evaluates the total liability for the input.
//
// A canton without a state income table is a hard error: income tax cannot be
// silently zero. A missing wealth table, municipal rate, federal table or
// personal tax contributes zero and is reported as a warning, because cantons
// may legitimately lack these.
func (c *Calculator) Compute(in Input) (*Breakdown, error) {
	if !cantonRegex.MatchString(in.Canton) {
		return nil, errValidation("canton", "must be a 2-letter abbreviation, got %q", in.Canton)
	}
	if in.TaxableIncome.IsNegative() {
		return nil, errValidation("taxable_income", "must not be negative, got %s", in.TaxableIncome)
	}
	if in.TaxableWealth.IsNegative() {
		return nil, errValidation("taxable_wealth", "must not be negative, got %s", in.TaxableWealth)
	}
	if in.NumChildren < 0 {
		return nil, errValidation("num_children", "must not be negative, got %d", in.NumChildren)
	}
	if in.NumAdults < 0 {
		return nil, errValidation("num_adults", "must not be negative, got %d", in.NumAdults)
	}
	adults := in.NumAdults
	if adults == 0 {
		adults = 1
	}

	b := &Breakdown{}

	// 1. State income tax, the one mandatory tariff.
	income, ok := c.tariffs.StateTable(in.Canton, Income)
	if !ok {
		return nil, &MissingTariffError{Canton: in.Canton, Scope: Income}
	}
	b.StateIncomeTax, _, _ = income.Evaluate(in.TaxableIncome)

	// 2. State wealth tax, absent when the canton levies none in this model.
	if wealth, ok := c.tariffs.StateTable(in.Canton, Wealth); ok {
		b.StateWealthTax, _, _ = wealth.Evaluate(in.TaxableWealth)
	} else {
		b.warn("no wealth tariff for canton %s, wealth tax contributes zero", in.Canton)
	}

	// 3. Municipal multiplier and church rate, both applied to the state tax.
	stateTax := b.StateIncomeTax.Add(b.StateWealthTax)
	if rate, ok := c.rates.MunicipalFor(in.Municipality, in.Canton); ok {
		b.MunicipalTax = rate.BaseRate.Apply(stateTax)
		b.ChurchTax = EffectiveChurchRate(rate, in.Confession).Apply(stateTax)
	} else {
		b.warn("no municipal rate for %s (%s), municipal tax contributes zero", in.Municipality, in.Canton)
	}

	// 4. Federal tax with the per-child deduction, floored at zero.
	if federal, ok := c.tariffs.FederalTable(); ok {
		raw, _, _ := federal.Evaluate(in.TaxableIncome)
		if d := federal.ChildDeduction(); d != nil && in.NumChildren > 0 {
			raw = raw.Sub(d.MulInt(in.NumChildren))
		}
		b.FederalTax = raw.FloorZero()
	} else {
		b.warn("no federal tariff, federal tax contributes zero")
	}

	// 5. Personal flat tax, once per adult.
	if tax, ok := c.rates.PersonalFor(in.Canton); ok {
		b.PersonalTax = tax.Amount.MulInt(adults)
	} else {
		b.warn("no personal tax for canton %s, personal tax contributes zero", in.Canton)
	}

	b.Total = b.StateIncomeTax.
		Add(b.StateWealthTax).
		Add(b.MunicipalTax).
		Add(b.ChurchTax).
		Add(b.FederalTax).
		Add(b.PersonalTax)
	return b, nil
}

func (b *Breakdown) warn(format string, args ...any) {
	b.Warnings = append(b.Warnings, warningf(format, args...))
}
