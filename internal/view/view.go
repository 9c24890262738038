// Package view derives what the screens show from session state. Render
// is pure: same state in, same model out, nothing mutated either way.
package view

import (
	"sort"

	"spendlog/internal/core"
	"spendlog/internal/session"
)

// EmptyMessage is shown on the dashboard when nothing has been logged.
const EmptyMessage = "No expenses recorded yet."

// navOrder fixes the switcher entries and their display order.
var navOrder = []struct {
	View  core.View
	Label string
}{
	{core.ViewLogger, "Add Expense"},
	{core.ViewDashboard, "Dashboard"},
}

type (
	// NavLink is one entry in the view switcher.
	NavLink struct {
		View   core.View
		Label  string
		Active bool
	}

	// Entry is a display-ready expense row.
	Entry struct {
		Description string
		Category    string
		Date        string // e.g. "Jan 10, 2024"
		Amount      string // e.g. "$4.50"
	}

	// Model is everything the templates need, already formatted.
	Model struct {
		Active      core.View
		Nav         []NavLink
		Total       string
		Empty       bool
		Placeholder string
		Entries     []Entry
		TodayISO    string
	}
)

// Render turns a state snapshot into a display model. The total is the
// exact cent sum of every entry; the list is date-descending, with equal
// dates keeping insertion order.
func Render(state session.State) Model {
	m := Model{
		Active:   state.Active,
		Nav:      Nav(state.Active),
		TodayISO: state.Today.ISO(),
	}

	var totalCents int64
	for _, e := range state.Expenses {
		totalCents += e.Amount.Cents
	}
	m.Total = core.Money{Cents: totalCents}.Format()

	if len(state.Expenses) == 0 {
		m.Empty = true
		m.Placeholder = EmptyMessage
		return m
	}

	sorted := append([]core.Expense(nil), state.Expenses...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})

	m.Entries = make([]Entry, 0, len(sorted))
	for _, e := range sorted {
		m.Entries = append(m.Entries, Entry{
			Description: e.Description,
			Category:    e.Category,
			Date:        e.Date.Display(),
			Amount:      e.Amount.Format(),
		})
	}
	return m
}

// Nav returns the switcher links with exactly the given view marked
// active.
func Nav(active core.View) []NavLink {
	links := make([]NavLink, 0, len(navOrder))
	for _, n := range navOrder {
		links = append(links, NavLink{View: n.View, Label: n.Label, Active: n.View == active})
	}
	return links
}
