package renderer

import (
	"github.com/etnz/steuer"
)

// component is one line of the rendered breakdown.
type component struct {
	Label  string
	Amount string
}

// breakdownView is the presentation shape of a liability breakdown.
type breakdownView struct {
	Canton       string
	Municipality string
	Income       string
	Wealth       string

	Components []component
	Total      string
	Warnings   []string
}

// Breakdown renders a computed liability breakdown to markdown.
func Breakdown(in steuer.Input, b *steuer.Breakdown) string {
	view := breakdownView{
		Canton:       in.Canton,
		Municipality: in.Municipality,
		Income:       in.TaxableIncome.String(),
		Wealth:       in.TaxableWealth.String(),
		Components: []component{
			{"State income tax", b.StateIncomeTax.String()},
			{"State wealth tax", b.StateWealthTax.String()},
			{"Municipal tax", b.MunicipalTax.String()},
			{"Church tax", b.ChurchTax.String()},
			{"Federal tax", b.FederalTax.String()},
			{"Personal tax", b.PersonalTax.String()},
		},
		Total: b.Total.String(),
	}
	for _, w := range b.Warnings {
		view.Warnings = append(view.Warnings, string(w))
	}
	return renderTemplate("breakdown", "breakdown.md", view)
}
