package http

import (
	"net/url"
	"testing"
)

func TestPlanFromForm(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		form := url.Values{
			"title":           {"  rent  "},
			"planned_expense": {"800,00"},
			"day":             {"1"},
			"month":           {"3"},
			"year":            {"2025"},
			"category":        {"housing"},
			"notes":           {"march"},
		}
		p, err := planFromForm(form)
		if err != nil {
			t.Fatalf("planFromForm() error = %v", err)
		}
		if p.Title != "rent" {
			t.Errorf("Title = %q, want trimmed", p.Title)
		}
		if p.Planned.Cents != 80000 {
			t.Errorf("Planned = %d cents, want 80000", p.Planned.Cents)
		}
		if p.Day == nil || *p.Day != 1 || p.Month == nil || *p.Month != 3 || p.Year == nil || *p.Year != 2025 {
			t.Errorf("date parts = %v/%v/%v", p.Day, p.Month, p.Year)
		}
	})

	t.Run("date parts optional", func(t *testing.T) {
		form := url.Values{"title": {"gift"}, "planned_expense": {"25"}}
		p, err := planFromForm(form)
		if err != nil {
			t.Fatalf("planFromForm() error = %v", err)
		}
		if p.Day != nil || p.Month != nil || p.Year != nil {
			t.Errorf("expected nil date parts, got %v/%v/%v", p.Day, p.Month, p.Year)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		form := url.Values{"title": {"x"}, "planned_expense": {"zero"}}
		if _, err := planFromForm(form); err == nil {
			t.Error("expected error for invalid amount")
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		form := url.Values{"title": {"x"}, "planned_expense": {"0"}}
		if _, err := planFromForm(form); err == nil {
			t.Error("expected error for zero amount")
		}
	})
}

func TestExpenseFromForm(t *testing.T) {
	t.Run("derives year and month from date", func(t *testing.T) {
		form := url.Values{
			"title":  {"groceries"},
			"date":   {"2025-03-14"},
			"amount": {"42.50"},
			// stale form values must be ignored
			"year":  {"1999"},
			"month": {"1"},
		}
		e, err := expenseFromForm(form)
		if err != nil {
			t.Fatalf("expenseFromForm() error = %v", err)
		}
		if e.Year != 2025 || e.Month != 3 {
			t.Errorf("date parts = %d/%d, want 2025/3", e.Year, e.Month)
		}
		if e.Amount.Cents != 4250 {
			t.Errorf("Amount = %d cents, want 4250", e.Amount.Cents)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		form := url.Values{"title": {"x"}, "date": {"14/03/2025"}, "amount": {"1"}}
		if _, err := expenseFromForm(form); err == nil {
			t.Error("expected error for invalid date")
		}
	})
}

func TestBudgetFromForm(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		form := url.Values{"budget": {"650"}, "month": {"6"}, "year": {"2025"}}
		b, err := budgetFromForm(form)
		if err != nil {
			t.Fatalf("budgetFromForm() error = %v", err)
		}
		if b.Budget.Cents != 65000 || b.Month != 6 || b.Year != 2025 {
			t.Errorf("budget = %+v", b)
		}
	})

	t.Run("missing month", func(t *testing.T) {
		form := url.Values{"budget": {"650"}, "year": {"2025"}}
		if _, err := budgetFromForm(form); err == nil {
			t.Error("expected error for missing month")
		}
	})
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keep\ttabs", "keep\ttabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatEuros(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "€12,34"},
		{5, "€0,05"},
		{0, "€0,00"},
		{-15000, "-€150,00"},
	}
	for _, tt := range tests {
		if got := formatEuros(tt.cents); got != tt.want {
			t.Errorf("formatEuros(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
