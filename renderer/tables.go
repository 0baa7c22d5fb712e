package renderer

import (
	"fmt"
	"strconv"

	"github.com/etnz/steuer"
)

// rowView is the presentation shape of one bracket row.
type rowView struct {
	Threshold string
	Base      string
	Per100    string
	Note      string
}

// tableView is the presentation shape of one bracket table.
type tableView struct {
	ID             string
	Name           string
	Kind           string // "ZH income", "federal", ...
	Description    string
	ChildDeduction string // empty when the table grants none
	Rows           []rowView
}

func newTableView(t *steuer.BracketTable) tableView {
	view := tableView{
		ID:          t.ID(),
		Name:        t.Name(),
		Description: t.Description(),
	}
	if t.Federal() {
		view.Kind = "federal"
		if d := t.ChildDeduction(); d != nil {
			view.ChildDeduction = d.String()
		}
	} else {
		view.Kind = fmt.Sprintf("%s %s", t.Canton(), t.Scope())
	}
	for _, row := range t.Rows() {
		view.Rows = append(view.Rows, rowView{
			Threshold: row.Threshold.String(),
			Base:      row.BaseAmount.String(),
			Per100:    row.Per100Amount.String(),
			Note:      row.Note,
		})
	}
	return view
}

// Table renders one bracket table with all its rows to markdown.
func Table(t *steuer.BracketTable) string {
	return renderTemplate("table", "table.md", newTableView(t))
}

// Tables renders a summary listing of bracket tables to markdown.
func Tables(tables []*steuer.BracketTable) string {
	type line struct {
		ID       string
		Kind     string
		Name     string
		Brackets string
	}
	var lines []line
	for _, t := range tables {
		v := newTableView(t)
		lines = append(lines, line{
			ID:       v.ID,
			Kind:     v.Kind,
			Name:     v.Name,
			Brackets: strconv.Itoa(len(v.Rows)),
		})
	}
	return renderTemplate("tables", "tables.md", lines)
}
