package steuer

import (
	"sort"
	"strings"
	"sync"
)

// MunicipalRate is the multiplier a municipality levies on the state tax,
// plus the optional church rates per confession. A nil church rate means the
// municipality publishes none for that confession, which is distinct from a
// published rate of zero.
type MunicipalRate struct {
	ID           string
	Municipality string
	Canton       string

	BaseRate Percent

	RefRate           *Percent
	CathRate          *Percent
	ChristianCathRate *Percent
}

func (m MunicipalRate) clone() MunicipalRate {
	clonePercent := func(p *Percent) *Percent {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	m.RefRate = clonePercent(m.RefRate)
	m.CathRate = clonePercent(m.CathRate)
	m.ChristianCathRate = clonePercent(m.ChristianCathRate)
	return m
}

// EffectiveChurchRate selects the church rate applying to the household's
// confession. It defaults to zero when the household declares no confession
// or the municipality publishes no rate for it.
func EffectiveChurchRate(rate MunicipalRate, confession Confession) Percent {
	var p *Percent
	switch confession {
	case Reformed:
		p = rate.RefRate
	case Catholic:
		p = rate.CathRate
	case ChristianCatholic:
		p = rate.ChristianCathRate
	}
	if p == nil {
		return 0
	}
	return *p
}

// PersonalTax is the flat per-adult amount a canton levies regardless of
// income.
type PersonalTax struct {
	ID     string
	Canton string
	Amount Money
}

// Rates holds the two overlay stores: municipal multiplier rates keyed by
// (municipality, canton) and personal taxes keyed by canton. At most one
// active entry exists per key.
//
// Like the Registry, writes serialize on the store lock and always replace
// whole values, and readers work on snapshots.
type Rates struct {
	mu        sync.RWMutex
	municipal map[string]MunicipalRate
	personal  map[string]PersonalTax
}

// NewRates creates empty overlay stores.
func NewRates() *Rates {
	return &Rates{
		municipal: make(map[string]MunicipalRate),
		personal:  make(map[string]PersonalTax),
	}
}

func municipalID(municipality, canton string) string {
	return slug(municipality) + "-" + strings.ToLower(canton)
}

func (r *Rates) validateMunicipal(rate MunicipalRate) error {
	if rate.Municipality == "" {
		return errValidation("municipality", "must not be empty")
	}
	if !cantonRegex.MatchString(rate.Canton) {
		return errValidation("canton", "must be a 2-letter abbreviation, got %q", rate.Canton)
	}
	if rate.BaseRate < 0 {
		return errValidation("base_rate", "must not be negative, got %s", rate.BaseRate)
	}
	if p := rate.RefRate; p != nil && *p < 0 {
		return errValidation("ref_rate", "must not be negative, got %s", *p)
	}
	if p := rate.CathRate; p != nil && *p < 0 {
		return errValidation("cath_rate", "must not be negative, got %s", *p)
	}
	if p := rate.ChristianCathRate; p != nil && *p < 0 {
		return errValidation("christian_cath_rate", "must not be negative, got %s", *p)
	}
	return nil
}

// CreateMunicipal stores a new municipal rate. The (municipality, canton)
// key must not already exist.
func (r *Rates) CreateMunicipal(rate MunicipalRate) (MunicipalRate, error) {
	if err := r.validateMunicipal(rate); err != nil {
		return MunicipalRate{}, err
	}
	rate.ID = municipalID(rate.Municipality, rate.Canton)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.municipal[rate.ID]; exists {
		return MunicipalRate{}, errValidation("municipality", "%s (%s) already has a rate", rate.Municipality, rate.Canton)
	}
	r.municipal[rate.ID] = rate.clone()
	return rate, nil
}

// MunicipalPatch describes a partial update of a municipal rate. Nil fields
// are left unchanged; the Clear flags reset a church rate to unpublished.
type MunicipalPatch struct {
	BaseRate *Percent

	RefRate           *Percent
	CathRate          *Percent
	ChristianCathRate *Percent

	ClearRefRate           bool
	ClearCathRate          bool
	ClearChristianCathRate bool
}

// UpdateMunicipal applies the patch and swaps in the new value.
func (r *Rates) UpdateMunicipal(id string, patch MunicipalPatch) (MunicipalRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rate, ok := r.municipal[id]
	if !ok {
		return MunicipalRate{}, &NotFoundError{Kind: "municipal rate", Key: id}
	}
	rate = rate.clone()

	if patch.BaseRate != nil {
		rate.BaseRate = *patch.BaseRate
	}
	if patch.ClearRefRate {
		rate.RefRate = nil
	} else if patch.RefRate != nil {
		v := *patch.RefRate
		rate.RefRate = &v
	}
	if patch.ClearCathRate {
		rate.CathRate = nil
	} else if patch.CathRate != nil {
		v := *patch.CathRate
		rate.CathRate = &v
	}
	if patch.ClearChristianCathRate {
		rate.ChristianCathRate = nil
	} else if patch.ChristianCathRate != nil {
		v := *patch.ChristianCathRate
		rate.ChristianCathRate = &v
	}

	if err := r.validateMunicipal(rate); err != nil {
		return MunicipalRate{}, err
	}
	r.municipal[id] = rate
	return rate.clone(), nil
}

// DeleteMunicipal removes the municipal rate.
func (r *Rates) DeleteMunicipal(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.municipal[id]; !ok {
		return &NotFoundError{Kind: "municipal rate", Key: id}
	}
	delete(r.municipal, id)
	return nil
}

// GetMunicipal returns the municipal rate with this id.
func (r *Rates) GetMunicipal(id string) (MunicipalRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.municipal[id]
	if !ok {
		return MunicipalRate{}, &NotFoundError{Kind: "municipal rate", Key: id}
	}
	return rate.clone(), nil
}

// Municipals returns all municipal rates sorted by id.
func (r *Rates) Municipals() []MunicipalRate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]MunicipalRate, 0, len(r.municipal))
	for _, rate := range r.municipal {
		list = append(list, rate.clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ImportMunicipal bulk-upserts municipal rates atomically: when any entry is
// invalid, nothing is applied.
func (r *Rates) ImportMunicipal(rates []MunicipalRate) error {
	var batch ImportError
	batchRates := make([]MunicipalRate, 0, len(rates))
	for i, rate := range rates {
		if err := r.validateMunicipal(rate); err != nil {
			batch.Rows = append(batch.Rows, RowError{Index: i, Err: err})
			continue
		}
		rate = rate.clone()
		rate.ID = municipalID(rate.Municipality, rate.Canton)
		batchRates = append(batchRates, rate)
	}
	if len(batch.Rows) > 0 {
		return &batch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rate := range batchRates {
		r.municipal[rate.ID] = rate
	}
	return nil
}

// CreatePersonal stores a new personal tax. At most one exists per canton.
func (r *Rates) CreatePersonal(tax PersonalTax) (PersonalTax, error) {
	if !cantonRegex.MatchString(tax.Canton) {
		return PersonalTax{}, errValidation("canton", "must be a 2-letter abbreviation, got %q", tax.Canton)
	}
	if tax.Amount.IsNegative() {
		return PersonalTax{}, errValidation("amount", "must not be negative, got %s", tax.Amount)
	}
	tax.ID = strings.ToLower(tax.Canton)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.personal[tax.ID]; exists {
		return PersonalTax{}, errValidation("canton", "canton %s already has a personal tax", tax.Canton)
	}
	r.personal[tax.ID] = tax
	return tax, nil
}

// UpdatePersonal replaces the flat amount of an existing personal tax.
func (r *Rates) UpdatePersonal(id string, amount Money) (PersonalTax, error) {
	if amount.IsNegative() {
		return PersonalTax{}, errValidation("amount", "must not be negative, got %s", amount)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tax, ok := r.personal[id]
	if !ok {
		return PersonalTax{}, &NotFoundError{Kind: "personal tax", Key: id}
	}
	tax.Amount = amount
	r.personal[id] = tax
	return tax, nil
}

// DeletePersonal removes the personal tax.
func (r *Rates) DeletePersonal(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.personal[id]; !ok {
		return &NotFoundError{Kind: "personal tax", Key: id}
	}
	delete(r.personal, id)
	return nil
}

// GetPersonal returns the personal tax with this id.
func (r *Rates) GetPersonal(id string) (PersonalTax, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tax, ok := r.personal[id]
	if !ok {
		return PersonalTax{}, &NotFoundError{Kind: "personal tax", Key: id}
	}
	return tax, nil
}

// Personals returns all personal taxes sorted by id.
func (r *Rates) Personals() []PersonalTax {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]PersonalTax, 0, len(r.personal))
	for _, tax := range r.personal {
		list = append(list, tax)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// RateSnapshot is a consistent point-in-time view of the overlay stores.
type RateSnapshot struct {
	municipal map[string]MunicipalRate
	personal  map[string]PersonalTax
}

// Snapshot captures the current overlay rates.
func (r *Rates) Snapshot() *RateSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &RateSnapshot{
		municipal: make(map[string]MunicipalRate, len(r.municipal)),
		personal:  make(map[string]PersonalTax, len(r.personal)),
	}
	for id, rate := range r.municipal {
		s.municipal[id] = rate.clone()
	}
	for id, tax := range r.personal {
		s.personal[id] = tax
	}
	return s
}

// MunicipalFor resolves the rate for a municipality and canton.
func (s *RateSnapshot) MunicipalFor(municipality, canton string) (MunicipalRate, bool) {
	rate, ok := s.municipal[municipalID(municipality, canton)]
	return rate, ok
}

// PersonalFor resolves the personal tax for a canton.
func (s *RateSnapshot) PersonalFor(canton string) (PersonalTax, bool) {
	tax, ok := s.personal[strings.ToLower(canton)]
	return tax, ok
}
