package steuer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The store is persisted as a JSONL stream: one record per line, identified
// by a 'record' discriminator. The format is human readable and merges well
// under version control.
const (
	recordTable         = "table"
	recordMunicipalRate = "municipal-rate"
	recordPersonalTax   = "personal-tax"
)

// Store bundles the tariff registry and the overlay stores, the full state
// the engine persists.
type Store struct {
	Tariffs *Registry
	Rates   *Rates
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{Tariffs: NewRegistry(), Rates: NewRates()}
}

// Calculator snapshots the store's current state for evaluation.
func (s *Store) Calculator() *Calculator {
	return NewCalculator(s.Tariffs, s.Rates)
}

func encodeTable(w io.Writer, t *BracketTable) error {
	var jw jsonObjectWriter
	jw.Append("record", recordTable)
	jw.Append("id", t.ID())
	jw.Append("name", t.Name())
	if t.Federal() {
		jw.Append("federal", true)
		// nil must survive the round trip distinctly from zero.
		jw.Append("child_deduction_per_child", t.ChildDeduction())
	} else {
		jw.Append("canton", t.Canton())
		jw.Append("scope", t.Scope().String())
	}
	jw.Optional("description", t.Description())
	jw.Append("updated", t.UpdatedAt().UTC().Format(time.RFC3339Nano))

	rows := make([]*jsonObjectWriter, 0, len(t.Rows()))
	for _, row := range t.Rows() {
		var rw jsonObjectWriter
		rw.Append("threshold", row.Threshold)
		rw.Append("base_amount", row.BaseAmount)
		rw.Append("per_100_amount", row.Per100Amount)
		rw.Optional("note", row.Note)
		rows = append(rows, &rw)
	}
	jw.Append("rows", rows)

	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal table %q: %w", t.ID(), err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func encodeMunicipalRate(w io.Writer, rate MunicipalRate) error {
	var jw jsonObjectWriter
	jw.Append("record", recordMunicipalRate)
	jw.Append("municipality", rate.Municipality)
	jw.Append("canton", rate.Canton)
	jw.Append("base_rate", float64(rate.BaseRate))
	jw.Append("ref_rate", percentValue(rate.RefRate))
	jw.Append("cath_rate", percentValue(rate.CathRate))
	jw.Append("christian_cath_rate", percentValue(rate.ChristianCathRate))

	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal municipal rate %q: %w", rate.ID, err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func encodePersonalTax(w io.Writer, tax PersonalTax) error {
	var jw jsonObjectWriter
	jw.Append("record", recordPersonalTax)
	jw.Append("canton", tax.Canton)
	jw.Append("amount", tax.Amount)

	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal personal tax %q: %w", tax.ID, err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// EncodeStore persists the whole store to 'w' in JSONL format, in a
// canonical order: tables by id, then municipal rates, then personal taxes.
func EncodeStore(w io.Writer, s *Store) error {
	for _, t := range s.Tariffs.List() {
		if err := encodeTable(w, t); err != nil {
			return err
		}
	}
	for _, rate := range s.Rates.Municipals() {
		if err := encodeMunicipalRate(w, rate); err != nil {
			return err
		}
	}
	for _, tax := range s.Rates.Personals() {
		if err := encodePersonalTax(w, tax); err != nil {
			return err
		}
	}
	return nil
}

// jsonTable is the persisted shape of a bracket table.
type jsonTable struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Canton         string           `json:"canton"`
	Scope          string           `json:"scope"`
	Federal        bool             `json:"federal"`
	ChildDeduction *decimal.Decimal `json:"child_deduction_per_child"`
	Description    string           `json:"description"`
	Updated        string           `json:"updated"`
	Rows           []jsonBracketRow `json:"rows"`
}

func decodeTable(line []byte) (*BracketTable, error) {
	var jt jsonTable
	if err := json.Unmarshal(line, &jt); err != nil {
		return nil, err
	}

	t := &BracketTable{
		id:          jt.ID,
		name:        jt.Name,
		description: jt.Description,
		federal:     jt.Federal,
	}
	if jt.Federal {
		if jt.ChildDeduction != nil {
			d := M(*jt.ChildDeduction)
			t.childDeduction = &d
		}
	} else {
		scope, err := ParseScope(jt.Scope)
		if err != nil {
			return nil, err
		}
		t.canton = jt.Canton
		t.scope = scope
	}
	if jt.Updated != "" {
		updated, err := time.Parse(time.RFC3339Nano, jt.Updated)
		if err != nil {
			return nil, fmt.Errorf("invalid updated timestamp: %w", err)
		}
		t.updatedAt = updated
	}

	rows := make([]Bracket, 0, len(jt.Rows))
	for i, jrow := range jt.Rows {
		var row Bracket
		var err error
		if row.Threshold, err = parseAmount("threshold", jrow.Threshold); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if row.BaseAmount, err = parseAmount("base_amount", jrow.BaseAmount); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if row.Per100Amount, err = parseAmount("per_100_amount", jrow.Per100Amount); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		row.Note = jrow.Note
		rows = append(rows, row)
	}
	canonical, err := ValidateRows(rows)
	if err != nil {
		return nil, err
	}
	t.rows = canonical
	return t, nil
}

// DecodeStore reads a JSONL stream produced by EncodeStore and rebuilds the
// store.
func DecodeStore(r io.Reader) (*Store, error) {
	s := NewStore()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %d: %w", line, err)
		}

		switch identifier.Record {
		case recordTable:
			t, err := decodeTable(lineBytes)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid table: %w", line, err)
			}
			if err := s.Tariffs.restore(t); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case recordMunicipalRate:
			var jrate jsonMunicipalRate
			if err := json.Unmarshal(lineBytes, &jrate); err != nil {
				return nil, fmt.Errorf("line %d: invalid municipal rate: %w", line, err)
			}
			rate, err := municipalFromJSON(jrate)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if _, err := s.Rates.CreateMunicipal(rate); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case recordPersonalTax:
			var jtax struct {
				Canton string `json:"canton"`
				Amount Money  `json:"amount"`
			}
			if err := json.Unmarshal(lineBytes, &jtax); err != nil {
				return nil, fmt.Errorf("line %d: invalid personal tax: %w", line, err)
			}
			if _, err := s.Rates.CreatePersonal(PersonalTax{Canton: jtax.Canton, Amount: jtax.Amount}); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown record kind: %q", line, identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return s, nil
}

// municipalFromJSON converts the persisted shape back to a MunicipalRate.
func municipalFromJSON(jrate jsonMunicipalRate) (MunicipalRate, error) {
	rate := MunicipalRate{Municipality: jrate.Municipality, Canton: jrate.Canton}
	base, err := parseRate("base_rate", jrate.BaseRate, true)
	if err != nil {
		return MunicipalRate{}, err
	}
	rate.BaseRate = *base
	if rate.RefRate, err = parseRate("ref_rate", jrate.RefRate, false); err != nil {
		return MunicipalRate{}, err
	}
	if rate.CathRate, err = parseRate("cath_rate", jrate.CathRate, false); err != nil {
		return MunicipalRate{}, err
	}
	if rate.ChristianCathRate, err = parseRate("christian_cath_rate", jrate.ChristianCathRate, false); err != nil {
		return MunicipalRate{}, err
	}
	return rate, nil
}
