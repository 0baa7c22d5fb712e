package steuer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and easy to produce from a
// spreadsheet export.

// jsonBracketRow is the import/export shape of one bracket row: required
// numeric fields and an optional note. Pointers separate a missing field
// from a legitimate zero.
type jsonBracketRow struct {
	Threshold    *json.Number `json:"threshold"`
	BaseAmount   *json.Number `json:"base_amount"`
	Per100Amount *json.Number `json:"per_100_amount"`
	Note         string       `json:"note,omitempty"`
}

func parseAmount(field string, n *json.Number) (Money, error) {
	if n == nil {
		return Money{}, fmt.Errorf("missing numeric field %q", field)
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return Money{}, fmt.Errorf("field %q is not a number: %w", field, err)
	}
	return M(v), nil
}

// decodeArray reads the import format, a JSON array of objects, into raw rows.
func decodeArray(r io.Reader) ([]json.RawMessage, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot parse import file, expected a JSON array of objects: %w", err)
	}
	return raw, nil
}

// ParseBracketRows reads bracket rows from 'r' in the import format.
//
// The format is a JSON array of objects with required numeric fields
// 'threshold', 'base_amount' and 'per_100_amount', and an optional 'note'.
//
// Malformed rows are rejected with a per-row diagnostic collected into an
// ImportError; a single bad row fails the whole parse so that an import stays
// all-or-nothing.
func ParseBracketRows(r io.Reader) ([]Bracket, error) {
	raw, err := decodeArray(r)
	if err != nil {
		return nil, err
	}

	rows := make([]Bracket, 0, len(raw))
	var batch ImportError
	for i, line := range raw {
		var jrow jsonBracketRow
		if err := json.Unmarshal(line, &jrow); err != nil {
			batch.Rows = append(batch.Rows, RowError{Index: i, Err: err})
			continue
		}
		var row Bracket
		var rowErr error
		if row.Threshold, rowErr = parseAmount("threshold", jrow.Threshold); rowErr == nil {
			if row.BaseAmount, rowErr = parseAmount("base_amount", jrow.BaseAmount); rowErr == nil {
				row.Per100Amount, rowErr = parseAmount("per_100_amount", jrow.Per100Amount)
			}
		}
		if rowErr != nil {
			batch.Rows = append(batch.Rows, RowError{Index: i, Err: rowErr})
			continue
		}
		row.Note = jrow.Note
		rows = append(rows, row)
	}
	if len(batch.Rows) > 0 {
		return nil, &batch
	}
	return rows, nil
}

// ExportBracketRows writes rows to 'w' in the import format, one object per
// line with a stable field order.
func ExportBracketRows(w io.Writer, rows []Bracket) error {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, row := range rows {
		var jw jsonObjectWriter
		jw.Append("threshold", row.Threshold)
		jw.Append("base_amount", row.BaseAmount)
		jw.Append("per_100_amount", row.Per100Amount)
		jw.Optional("note", row.Note)
		data, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot marshal bracket row %d: %w", i, err)
		}
		sep := ",\n"
		if i == len(rows)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "  %s%s", data, sep); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// jsonMunicipalRate is the import/export shape of one municipal rate. The
// church rates are optional and may be null; null round-trips as "no
// published rate", distinct from a rate of zero.
type jsonMunicipalRate struct {
	Municipality      string       `json:"municipality"`
	Canton            string       `json:"canton"`
	BaseRate          *json.Number `json:"base_rate"`
	RefRate           *json.Number `json:"ref_rate"`
	CathRate          *json.Number `json:"cath_rate"`
	ChristianCathRate *json.Number `json:"christian_cath_rate"`
}

func parseRate(field string, n *json.Number, required bool) (*Percent, error) {
	if n == nil {
		if required {
			return nil, fmt.Errorf("missing numeric field %q", field)
		}
		return nil, nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("field %q is not a number: %w", field, err)
	}
	p := Percent(v)
	return &p, nil
}

// ParseMunicipalRates reads municipal rates from 'r' in the import format: a
// JSON array of objects with 'municipality', 'canton', a required numeric
// 'base_rate' and optional 'ref_rate', 'cath_rate' and 'christian_cath_rate'.
// Like ParseBracketRows it is all-or-nothing with per-row diagnostics.
func ParseMunicipalRates(r io.Reader) ([]MunicipalRate, error) {
	raw, err := decodeArray(r)
	if err != nil {
		return nil, err
	}

	rates := make([]MunicipalRate, 0, len(raw))
	var batch ImportError
	for i, line := range raw {
		var jrate jsonMunicipalRate
		if err := json.Unmarshal(line, &jrate); err != nil {
			batch.Rows = append(batch.Rows, RowError{Index: i, Err: err})
			continue
		}
		rate := MunicipalRate{Municipality: jrate.Municipality, Canton: jrate.Canton}
		var rowErr error
		var base *Percent
		if base, rowErr = parseRate("base_rate", jrate.BaseRate, true); rowErr == nil {
			rate.BaseRate = *base
			if rate.RefRate, rowErr = parseRate("ref_rate", jrate.RefRate, false); rowErr == nil {
				if rate.CathRate, rowErr = parseRate("cath_rate", jrate.CathRate, false); rowErr == nil {
					rate.ChristianCathRate, rowErr = parseRate("christian_cath_rate", jrate.ChristianCathRate, false)
				}
			}
		}
		if rowErr != nil {
			batch.Rows = append(batch.Rows, RowError{Index: i, Err: rowErr})
			continue
		}
		rates = append(rates, rate)
	}
	if len(batch.Rows) > 0 {
		return nil, &batch
	}
	return rates, nil
}

// ExportMunicipalRates writes rates to 'w' in the import format.
func ExportMunicipalRates(w io.Writer, rates []MunicipalRate) error {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, rate := range rates {
		var jw jsonObjectWriter
		jw.Append("municipality", rate.Municipality)
		jw.Append("canton", rate.Canton)
		jw.Append("base_rate", float64(rate.BaseRate))
		jw.Append("ref_rate", percentValue(rate.RefRate))
		jw.Append("cath_rate", percentValue(rate.CathRate))
		jw.Append("christian_cath_rate", percentValue(rate.ChristianCathRate))
		data, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot marshal municipal rate %q: %w", rate.Municipality, err)
		}
		sep := ",\n"
		if i == len(rates)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "  %s%s", data, sep); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// percentValue converts an optional rate for marshaling: nil stays an
// explicit null.
func percentValue(p *Percent) any {
	if p == nil {
		return nil
	}
	return float64(*p)
}
