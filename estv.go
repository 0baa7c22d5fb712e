package steuer

import (
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

/*
	The federal administration publishes the direct federal tax tariff as a
	JSON dataset of the form:

	{
	    "tarif": {
	        "jahr": 2026,
	        "kinderabzug": 6500,
	        "stufen": [
	            {"von": 0, "steuer": 0, "je100": 0},
	            {"von": 18100, "steuer": 0, "je100": 0.77},
	            ...
	        ]
	    }
	}

	"von" is the threshold, "steuer" the base tax accrued at the threshold,
	"je100" the marginal tax per 100 francs above it.
*/

// DefaultFederalTariffURL is the published federal income tariff dataset.
const DefaultFederalTariffURL = "https://www.estv.admin.ch/dam/estv/tarife/dbst/tarif_post.json"

// FetchFederalTariff downloads the published federal tariff and converts it
// to bracket rows plus the per-child deduction (nil when the dataset
// publishes none). Responses are cached on disk for a day.
func FetchFederalTariff(addr string) (rows []Bracket, childDeduction *Money, err error) {
	if addr == "" {
		addr = DefaultFederalTariffURL
	}
	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return nil, nil, fmt.Errorf("error fetching federal tariff: %w", err)
	}
	return extractFederalTariff(jobj)
}

// FetchFederalTariffWith is FetchFederalTariff with a caller-provided client,
// for tests and custom transports.
func FetchFederalTariffWith(client *http.Client, addr string) (rows []Bracket, childDeduction *Money, err error) {
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, nil, fmt.Errorf("error fetching federal tariff: %w", err)
	}
	return extractFederalTariff(jobj)
}

func extractFederalTariff(jobj any) (rows []Bracket, childDeduction *Money, err error) {
	const rowsPath = "$.tarif.stufen[*]"
	jrows, err := jsonpath.Get(rowsPath, jobj)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing federal tariff: %q %w", rowsPath, err)
	}
	jlist, ok := jrows.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("error parsing federal tariff: %q is not a list", rowsPath)
	}

	for i, jrow := range jlist {
		threshold, err := jsonFloat(jrow, "$.von")
		if err != nil {
			return nil, nil, fmt.Errorf("federal tariff row %d: %w", i, err)
		}
		base, err := jsonFloat(jrow, "$.steuer")
		if err != nil {
			return nil, nil, fmt.Errorf("federal tariff row %d: %w", i, err)
		}
		per100, err := jsonFloat(jrow, "$.je100")
		if err != nil {
			return nil, nil, fmt.Errorf("federal tariff row %d: %w", i, err)
		}
		rows = append(rows, Bracket{
			Threshold:    M(threshold),
			BaseAmount:   M(base),
			Per100Amount: M(per100),
		})
	}

	// the deduction is optional in the dataset.
	if jded, err := jsonpath.Get("$.tarif.kinderabzug", jobj); err == nil {
		if v, ok := jded.(float64); ok {
			d := M(v)
			childDeduction = &d
		}
	}
	return rows, childDeduction, nil
}

// jsonFloat extracts a single numeric value from a decoded JSON object.
func jsonFloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("missing %q: %w", path, err)
	}
	v, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number: %v", path, jval)
	}
	return v, nil
}
