package steuer

import (
	"encoding/json"
	"testing"
)

func TestExtractFederalTariff(t *testing.T) {
	const payload = `{
  "tarif": {
    "jahr": 2026,
    "kinderabzug": 6500,
    "stufen": [
      {"von": 0, "steuer": 0, "je100": 0},
      {"von": 18100, "steuer": 0, "je100": 0.77},
      {"von": 32800, "steuer": 113.19, "je100": 0.88}
    ]
  }
}`
	var jobj any
	if err := json.Unmarshal([]byte(payload), &jobj); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	rows, deduction, err := extractFederalTariff(jobj)
	if err != nil {
		t.Fatalf("extractFederalTariff() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !rows[1].Threshold.Equal(M(18100)) || !rows[1].Per100Amount.Equal(M(0.77)) {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if !rows[2].BaseAmount.Equal(M(113.19)) {
		t.Errorf("row 2 base = %s, want 113.19", rows[2].BaseAmount)
	}
	if deduction == nil || !deduction.Equal(M(6500)) {
		t.Errorf("deduction = %v, want 6500", deduction)
	}
}

func TestExtractFederalTariff_NoDeduction(t *testing.T) {
	const payload = `{"tarif": {"jahr": 2026, "stufen": [{"von": 0, "steuer": 0, "je100": 0}]}}`
	var jobj any
	if err := json.Unmarshal([]byte(payload), &jobj); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	rows, deduction, err := extractFederalTariff(jobj)
	if err != nil {
		t.Fatalf("extractFederalTariff() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
	if deduction != nil {
		t.Errorf("deduction = %v, want nil when the dataset publishes none", deduction)
	}
}

func TestExtractFederalTariff_Malformed(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"missing stufen", `{"tarif": {"jahr": 2026}}`},
		{"non numeric threshold", `{"tarif": {"stufen": [{"von": "18100", "steuer": 0, "je100": 0.77}]}}`},
		{"missing field", `{"tarif": {"stufen": [{"von": 18100, "je100": 0.77}]}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var jobj any
			if err := json.Unmarshal([]byte(tc.payload), &jobj); err != nil {
				t.Fatalf("unmarshal payload: %v", err)
			}
			if _, _, err := extractFederalTariff(jobj); err == nil {
				t.Error("extractFederalTariff() succeeded, want an error")
			}
		})
	}
}
