package steuer

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// cantonRegex checks for the format of a canton abbreviation: 2 uppercase letters.
var cantonRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// Registry is the identity-keyed storage and lifecycle of bracket tables.
//
// State tables are keyed by (canton, scope); several tables may exist per
// canton and scope, but the (canton, scope, name) identity is unique so that
// lookups stay unambiguous. Federal tables form a flat family; when several
// exist the most recently updated one applies.
//
// Concurrent writes to the same table serialize on the registry lock, and a
// mutation always swaps in a freshly built table value. Readers work on
// snapshots and never observe a table mid-mutation.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*BracketTable
	rev    uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*BracketTable)}
}

// TableSpec describes a table to create.
type TableSpec struct {
	Name        string
	Description string

	// State tables.
	Canton string
	Scope  Scope

	// Federal table.
	Federal        bool
	ChildDeduction *Money

	Rows []Bracket
}

// slug derives an identifier fragment from a human name.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func tableID(spec TableSpec) string {
	if spec.Federal {
		return "federal-" + slug(spec.Name)
	}
	return strings.ToLower(spec.Canton) + "-" + spec.Scope.String() + "-" + slug(spec.Name)
}

// Create validates the spec, canonicalizes its rows and stores a new table.
func (r *Registry) Create(spec TableSpec) (*BracketTable, error) {
	if spec.Name == "" {
		return nil, errValidation("name", "must not be empty")
	}
	if spec.Federal {
		if spec.Canton != "" {
			return nil, errValidation("canton", "a federal table has no canton")
		}
		if spec.ChildDeduction != nil && spec.ChildDeduction.IsNegative() {
			return nil, errValidation("child_deduction_per_child", "must not be negative, got %s", *spec.ChildDeduction)
		}
	} else {
		if !cantonRegex.MatchString(spec.Canton) {
			return nil, errValidation("canton", "must be a 2-letter abbreviation, got %q", spec.Canton)
		}
		if spec.ChildDeduction != nil {
			return nil, errValidation("child_deduction_per_child", "only the federal table carries a child deduction")
		}
	}
	rows, err := ValidateRows(spec.Rows)
	if err != nil {
		return nil, err
	}

	t := &BracketTable{
		id:          tableID(spec),
		name:        spec.Name,
		description: spec.Description,
		canton:      spec.Canton,
		scope:       spec.Scope,
		federal:     spec.Federal,
		rows:        rows,
	}
	if spec.ChildDeduction != nil {
		d := *spec.ChildDeduction
		t.childDeduction = &d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[t.id]; exists {
		return nil, errValidation("name", "a table %q already exists", t.id)
	}
	for _, other := range r.tables {
		if !t.federal && !other.federal &&
			other.canton == t.canton && other.scope == t.scope && other.name == t.name {
			return nil, errValidation("name", "canton %s already has a %s table named %q", t.canton, t.scope, t.name)
		}
	}
	r.commit(t)
	return t.clone(), nil
}

// commit stamps the table with the next revision and stores it.
// The caller must hold the write lock.
func (r *Registry) commit(t *BracketTable) {
	r.rev++
	t.rev = r.rev
	t.updatedAt = time.Now()
	r.tables[t.id] = t
}

// restore inserts a decoded table, preserving its persisted timestamp.
// Revisions follow insertion order, so the persisted order decides clock ties.
func (r *Registry) restore(t *BracketTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[t.id]; exists {
		return errValidation("id", "duplicate table id %q", t.id)
	}
	r.rev++
	t.rev = r.rev
	r.tables[t.id] = t
	return nil
}

// TablePatch describes a partial update. Nil fields are left unchanged; Rows
// replaces the row set wholesale (a row-level change goes through
// BracketTable.UpsertRow or ImportRows first).
type TablePatch struct {
	Name        *string
	Description *string
	Rows        []Bracket

	ChildDeduction      *Money
	ClearChildDeduction bool
}

// Update applies the patch to the table and swaps in the new value.
func (r *Registry) Update(id string, patch TablePatch) (*BracketTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.tables[id]
	if !ok {
		return nil, &NotFoundError{Kind: "table", Key: id}
	}
	t := old.clone()

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, errValidation("name", "must not be empty")
		}
		// a rename must keep the (canton, scope, name) identity unique.
		for _, other := range r.tables {
			if other.id == t.id {
				continue
			}
			if !t.federal && !other.federal &&
				other.canton == t.canton && other.scope == t.scope && other.name == *patch.Name {
				return nil, errValidation("name", "canton %s already has a %s table named %q", t.canton, t.scope, *patch.Name)
			}
		}
		t.name = *patch.Name
	}
	if patch.Description != nil {
		t.description = *patch.Description
	}
	if patch.Rows != nil {
		rows, err := ValidateRows(patch.Rows)
		if err != nil {
			return nil, err
		}
		t.rows = rows
	}
	if patch.ClearChildDeduction {
		t.childDeduction = nil
	} else if patch.ChildDeduction != nil {
		if !t.federal {
			return nil, errValidation("child_deduction_per_child", "only the federal table carries a child deduction")
		}
		if patch.ChildDeduction.IsNegative() {
			return nil, errValidation("child_deduction_per_child", "must not be negative, got %s", *patch.ChildDeduction)
		}
		d := *patch.ChildDeduction
		t.childDeduction = &d
	}

	r.commit(t)
	return t.clone(), nil
}

// ImportRows bulk-imports rows into the table in the given mode, atomically:
// a failure leaves the stored table untouched.
func (r *Registry) ImportRows(id string, rows []Bracket, mode ImportMode) (*BracketTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.tables[id]
	if !ok {
		return nil, &NotFoundError{Kind: "table", Key: id}
	}
	newRows, err := old.ImportRows(rows, mode)
	if err != nil {
		return nil, err
	}
	t := old.clone()
	t.rows = newRows
	r.commit(t)
	return t.clone(), nil
}

// Delete removes the table. Deletion is immediate and irreversible; an
// evaluation already working on a snapshot keeps its view.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return &NotFoundError{Kind: "table", Key: id}
	}
	delete(r.tables, id)
	return nil
}

// Get returns the table with this id.
func (r *Registry) Get(id string) (*BracketTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, &NotFoundError{Kind: "table", Key: id}
	}
	return t.clone(), nil
}

// List returns the tables matching all filters, sorted by id.
func (r *Registry) List(filters ...func(*BracketTable) bool) []*BracketTable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*BracketTable
next:
	for _, t := range r.tables {
		for _, filter := range filters {
			if !filter(t) {
				continue next
			}
		}
		list = append(list, t.clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	return list
}

// ByCanton returns a predicate that filters tables by canton.
func ByCanton(canton string) func(*BracketTable) bool {
	return func(t *BracketTable) bool { return t.canton == canton }
}

// ByScope returns a predicate that filters state tables by scope.
func ByScope(scope Scope) func(*BracketTable) bool {
	return func(t *BracketTable) bool { return !t.federal && t.scope == scope }
}

// OnlyFederal returns a predicate that keeps federal tables.
func OnlyFederal() func(*BracketTable) bool {
	return func(t *BracketTable) bool { return t.federal }
}

// TariffSnapshot is a consistent point-in-time view of the registry's tables.
// It is immutable and safe for concurrent use.
type TariffSnapshot struct {
	tables map[string]*BracketTable
}

// Snapshot captures the current set of tables. The snapshot shares the
// immutable table values but is detached from later mutations.
func (r *Registry) Snapshot() *TariffSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tables := make(map[string]*BracketTable, len(r.tables))
	for id, t := range r.tables {
		tables[id] = t
	}
	return &TariffSnapshot{tables: tables}
}

// Table returns the table with this id in the snapshot.
func (s *TariffSnapshot) Table(id string) (*BracketTable, bool) {
	t, ok := s.tables[id]
	return t, ok
}

// latest picks the most recently updated table among candidates. The
// revision counter breaks clock ties, so the pick is deterministic even when
// two writes share a timestamp, and it survives a store reload because the
// timestamp is persisted.
func latest(a, b *BracketTable) *BracketTable {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.updatedAt.After(a.updatedAt) {
		return b
	}
	if a.updatedAt.After(b.updatedAt) {
		return a
	}
	if b.rev > a.rev {
		return b
	}
	return a
}

// StateTable resolves the state table for a canton and scope. When several
// tables exist for the same canton and scope, the most recently updated one
// applies, like for the federal family.
func (s *TariffSnapshot) StateTable(canton string, scope Scope) (*BracketTable, bool) {
	var pick *BracketTable
	for _, t := range s.tables {
		if !t.federal && t.canton == canton && t.scope == scope {
			pick = latest(pick, t)
		}
	}
	return pick, pick != nil
}

// FederalTable resolves the federal table. The model does not enforce a
// single federal table; when several exist the most recently updated one
// applies.
func (s *TariffSnapshot) FederalTable() (*BracketTable, bool) {
	var pick *BracketTable
	for _, t := range s.tables {
		if t.federal {
			pick = latest(pick, t)
		}
	}
	return pick, pick != nil
}
