package renderer

import (
	"github.com/etnz/steuer"
)

// rateView is the presentation shape of one municipal rate. Unpublished
// church rates show as a dash, not as zero.
type rateView struct {
	Municipality string
	Canton       string
	Base         string
	Ref          string
	Cath         string
	ChristCath   string
}

func formatRate(p *steuer.Percent) string {
	if p == nil {
		return "-"
	}
	return p.String()
}

// MunicipalRates renders the municipal rates listing to markdown.
func MunicipalRates(rates []steuer.MunicipalRate) string {
	var views []rateView
	for _, r := range rates {
		views = append(views, rateView{
			Municipality: r.Municipality,
			Canton:       r.Canton,
			Base:         r.BaseRate.String(),
			Ref:          formatRate(r.RefRate),
			Cath:         formatRate(r.CathRate),
			ChristCath:   formatRate(r.ChristianCathRate),
		})
	}
	return renderTemplate("municipal_rates", "municipal_rates.md", views)
}

// PersonalTaxes renders the personal taxes listing to markdown.
func PersonalTaxes(taxes []steuer.PersonalTax) string {
	type line struct {
		Canton string
		Amount string
	}
	var lines []line
	for _, t := range taxes {
		lines = append(lines, line{Canton: t.Canton, Amount: t.Amount.String()})
	}
	return renderTemplate("personal_taxes", "personal_taxes.md", lines)
}
