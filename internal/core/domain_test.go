package core

import (
	"errors"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func TestPlanValidate(t *testing.T) {
	valid := Plan{Title: "rent", Planned: Money{Cents: 80000}}

	tests := []struct {
		name    string
		mutate  func(p *Plan)
		wantErr error
	}{
		{"valid minimal", func(p *Plan) {}, nil},
		{"valid full date", func(p *Plan) { p.Day = intPtr(14); p.Month = intPtr(3); p.Year = intPtr(2025) }, nil},
		{"empty title", func(p *Plan) { p.Title = "   " }, ErrEmptyTitle},
		{"negative amount", func(p *Plan) { p.Planned = Money{Cents: -1} }, ErrInvalidAmount},
		{"month zero", func(p *Plan) { p.Month = intPtr(0) }, ErrInvalidMonth},
		{"month thirteen", func(p *Plan) { p.Month = intPtr(13) }, ErrInvalidMonth},
		{"day out of range", func(p *Plan) { p.Day = intPtr(32) }, ErrInvalidDay},
		{"year zero", func(p *Plan) { p.Year = intPtr(0) }, ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseSyncDateParts(t *testing.T) {
	e := Expense{
		Title: "train ticket",
		Date:  time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC),
		// stale denormalized values
		Year:  2020,
		Month: 1,
	}
	e.SyncDateParts()
	if e.Year != 2024 || e.Month != 12 {
		t.Errorf("SyncDateParts() = %d/%d, want 2024/12", e.Year, e.Month)
	}
}

func TestMonthlyBudgetValidate(t *testing.T) {
	tests := []struct {
		name    string
		budget  MonthlyBudget
		wantErr error
	}{
		{"valid", MonthlyBudget{Budget: Money{Cents: 50000}, Month: 6, Year: 2025}, nil},
		{"zero amount", MonthlyBudget{Month: 6, Year: 2025}, ErrInvalidAmount},
		{"negative amount", MonthlyBudget{Budget: Money{Cents: -100}, Month: 6, Year: 2025}, ErrInvalidAmount},
		{"bad month", MonthlyBudget{Budget: Money{Cents: 100}, Month: 0, Year: 2025}, ErrInvalidMonth},
		{"bad year", MonthlyBudget{Budget: Money{Cents: 100}, Month: 6, Year: -1}, ErrInvalidYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		month, year, want int
	}{
		{1, 2025, 31},
		{4, 2025, 30},
		{2, 2025, 28},
		{2, 2024, 29},
		{2, 2000, 29},
		{2, 1900, 28},
		{12, 2025, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.month, tt.year); got != tt.want {
			t.Errorf("DaysIn(%d, %d) = %d, want %d", tt.month, tt.year, got, tt.want)
		}
	}
}
