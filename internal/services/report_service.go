package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

// BudgetSummary compares the current budget of a month against what was
// actually spent. Remaining goes negative on overspend.
type BudgetSummary struct {
	Month     int        `json:"month"`
	Year      int        `json:"year"`
	Budget    core.Money `json:"-"`
	Spent     core.Money `json:"-"`
	Remaining core.Money `json:"-"`
	HasBudget bool       `json:"has_budget"`
}

// CategoryRow is one line of a month's category breakdown: planned and
// actual spend for a single category. Either side may be zero when the
// category only appears on the other.
type CategoryRow struct {
	Category string     `json:"category"`
	Planned  core.Money `json:"-"`
	Actual   core.Money `json:"-"`
}

// ReportService computes month-scoped aggregates over the store.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// SpentTotal sums all expenses recorded in the given month.
func (s *ReportService) SpentTotal(ctx context.Context, month, year int) (core.Money, error) {
	cents, err := s.store.SpentTotalCents(ctx, month, year)
	if err != nil {
		return core.Money{}, fmt.Errorf("spent total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// Summary resolves the month's current budget and subtracts the spent
// total. A month without any budget record yields HasBudget=false with
// a zero budget, so Remaining equals the negated spend.
func (s *ReportService) Summary(ctx context.Context, month, year int) (BudgetSummary, error) {
	out := BudgetSummary{Month: month, Year: year}

	spent, err := s.store.SpentTotalCents(ctx, month, year)
	if err != nil {
		return BudgetSummary{}, fmt.Errorf("spent total: %w", err)
	}
	out.Spent = core.Money{Cents: spent}

	b, err := s.store.LatestBudgetFor(ctx, month, year)
	switch {
	case err == nil:
		out.Budget = b.Budget
		out.HasBudget = true
	case errors.Is(err, storage.ErrNotFound):
		// no budget set for this month
	default:
		return BudgetSummary{}, fmt.Errorf("latest budget: %w", err)
	}

	out.Remaining = core.Money{Cents: out.Budget.Cents - out.Spent.Cents}
	return out, nil
}

// CategoryBreakdown merges the month's planned sums and actual sums
// into one row per category, sorted by category name. A month with no
// plans and no expenses yields an empty slice.
func (s *ReportService) CategoryBreakdown(ctx context.Context, month, year int) ([]CategoryRow, error) {
	planned, err := s.store.PlannedSumsByCategory(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("planned sums: %w", err)
	}
	actual, err := s.store.ActualSumsByCategory(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("actual sums: %w", err)
	}

	byCategory := make(map[string]*CategoryRow, len(planned)+len(actual))
	for _, p := range planned {
		byCategory[p.Category] = &CategoryRow{Category: p.Category, Planned: core.Money{Cents: p.Cents}}
	}
	for _, a := range actual {
		row, ok := byCategory[a.Category]
		if !ok {
			row = &CategoryRow{Category: a.Category}
			byCategory[a.Category] = row
		}
		row.Actual = core.Money{Cents: a.Cents}
	}

	rows := make([]CategoryRow, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows, nil
}

// DailyTotals returns one entry per day of the month, index 0 being the
// first day. Days without expenses are zero. The slice length follows
// the calendar, so February of a leap year gets 29 entries.
func (s *ReportService) DailyTotals(ctx context.Context, month, year int) ([]core.Money, error) {
	byDay, err := s.store.DailyTotalCents(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	days := core.DaysIn(month, year)
	out := make([]core.Money, days)
	for day, cents := range byDay {
		if day < 1 || day > days {
			continue
		}
		out[day-1] = core.Money{Cents: cents}
	}
	return out, nil
}
