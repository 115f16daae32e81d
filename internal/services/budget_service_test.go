package services

import (
	"context"
	"testing"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
	"budgetbook/internal/storage"
)

type fakeBudgetStore struct {
	records []core.MonthlyBudget
	nextID  int64
}

func (f *fakeBudgetStore) CreateBudget(ctx context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error) {
	f.nextID++
	b.ID = f.nextID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	f.records = append(f.records, b)
	return b, nil
}

func (f *fakeBudgetStore) DeleteBudget(ctx context.Context, id int64) error {
	for i, b := range f.records {
		if b.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeBudgetStore) GetBudget(ctx context.Context, id int64) (core.MonthlyBudget, error) {
	for _, b := range f.records {
		if b.ID == id {
			return b, nil
		}
	}
	return core.MonthlyBudget{}, storage.ErrNotFound
}

func (f *fakeBudgetStore) ListBudgets(ctx context.Context, filter query.Filter, page query.Page) ([]core.MonthlyBudget, int, error) {
	return f.records, len(f.records), nil
}

func (f *fakeBudgetStore) LatestBudgetFor(ctx context.Context, month, year int) (core.MonthlyBudget, error) {
	var latest core.MonthlyBudget
	found := false
	for _, b := range f.records {
		if b.Month != month || b.Year != year {
			continue
		}
		if !found || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
			found = true
		}
	}
	if !found {
		return core.MonthlyBudget{}, storage.ErrNotFound
	}
	return latest, nil
}

func TestBudgetAddIsAppendOnly(t *testing.T) {
	store := &fakeBudgetStore{}
	svc := NewBudgetService(store, nil)
	ctx := context.Background()

	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	first := core.MonthlyBudget{Budget: core.Money{Cents: 50000}, Month: 3, Year: 2025, CreatedAt: base}
	second := core.MonthlyBudget{Budget: core.Money{Cents: 60000}, Month: 3, Year: 2025, CreatedAt: base.Add(time.Minute)}

	if _, err := svc.Add(ctx, first); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.Add(ctx, second); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(store.records) != 2 {
		t.Fatalf("store has %d records, want 2 (append-only)", len(store.records))
	}
	latest, err := svc.LatestFor(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("LatestFor() error = %v", err)
	}
	if latest.Budget.Cents != 60000 {
		t.Errorf("latest budget = %d cents, want 60000", latest.Budget.Cents)
	}
}

func TestBudgetAddRejectsInvalid(t *testing.T) {
	svc := NewBudgetService(&fakeBudgetStore{}, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		budget core.MonthlyBudget
	}{
		{"zero amount", core.MonthlyBudget{Month: 1, Year: 2025}},
		{"month out of range", core.MonthlyBudget{Budget: core.Money{Cents: 100}, Month: 13, Year: 2025}},
		{"zero year", core.MonthlyBudget{Budget: core.Money{Cents: 100}, Month: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tt.budget); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
