// This file holds request parsing helpers shared by the page and API
// handlers: form-to-domain conversion, input sanitization and path
// parameter extraction.
package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// planFromForm converts posted plan fields into a domain plan. The
// amount arrives as a decimal string; day/month/year are independently
// optional.
func planFromForm(form url.Values) (core.Plan, error) {
	cents, ok := query.ParsePositiveCents(form.Get("planned_expense"))
	if !ok {
		return core.Plan{}, core.ErrInvalidAmount
	}

	p := core.Plan{
		Title:    sanitizeInput(form.Get("title")),
		Planned:  core.Money{Cents: cents},
		Category: sanitizeInput(form.Get("category")),
		Notes:    sanitizeInput(form.Get("notes")),
	}
	if d, ok := query.ParseOptionalInt(form.Get("day")); ok {
		p.Day = &d
	}
	if m, ok := query.ParseOptionalInt(form.Get("month")); ok {
		p.Month = &m
	}
	if y, ok := query.ParseOptionalInt(form.Get("year")); ok {
		p.Year = &y
	}
	if err := p.Validate(); err != nil {
		return core.Plan{}, err
	}
	return p, nil
}

// expenseFromForm converts posted expense fields into a domain expense.
// The date arrives as YYYY-MM-DD; year and month are derived from it,
// never read from the form.
func expenseFromForm(form url.Values) (core.Expense, error) {
	cents, ok := query.ParsePositiveCents(form.Get("amount"))
	if !ok {
		return core.Expense{}, core.ErrInvalidAmount
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(form.Get("date")))
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid date: %w", err)
	}

	e := core.Expense{
		Title:    sanitizeInput(form.Get("title")),
		Date:     date,
		Amount:   core.Money{Cents: cents},
		Category: sanitizeInput(form.Get("category")),
		Note:     sanitizeInput(form.Get("note")),
	}
	e.SyncDateParts()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// budgetFromForm converts posted budget fields into a domain budget.
func budgetFromForm(form url.Values) (core.MonthlyBudget, error) {
	cents, ok := query.ParsePositiveCents(form.Get("budget"))
	if !ok {
		return core.MonthlyBudget{}, core.ErrInvalidAmount
	}
	month, _ := query.ParseOptionalInt(form.Get("month"))
	year, _ := query.ParseOptionalInt(form.Get("year"))

	b := core.MonthlyBudget{
		Budget: core.Money{Cents: cents},
		Month:  month,
		Year:   year,
		Notes:  sanitizeInput(form.Get("notes")),
	}
	if err := b.Validate(); err != nil {
		return core.MonthlyBudget{}, err
	}
	return b, nil
}

// pathID extracts a positive record id from the request path.
func pathID(r *http.Request) (int64, bool) {
	return query.ParseID(r.PathValue("id"))
}

// pathMonthYear extracts {month}/{year} path segments, validating the
// month range.
func pathMonthYear(r *http.Request) (month, year int, ok bool) {
	month, mok := query.ParseOptionalInt(r.PathValue("month"))
	year, yok := query.ParseOptionalInt(r.PathValue("year"))
	if !mok || !yok || month < 1 || month > 12 || year <= 0 {
		return 0, 0, false
	}
	return month, year, true
}

// formatEuros formats cents as a Euro currency string (e.g. "€12,34").
func formatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(euros, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-€" + s
	}
	return "€" + s
}
