package services

import (
	"context"
	"fmt"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	applog "budgetbook/internal/log"
	"budgetbook/internal/query"
)

// BudgetService handles monthly budget records. Budgets are an
// append-only log per (month, year): Add never replaces an existing
// record, and reads resolve the latest by created_at.
type BudgetService struct {
	store  BudgetStore
	events EventPublisher
}

func NewBudgetService(store BudgetStore, events EventPublisher) *BudgetService {
	return &BudgetService{store: store, events: events}
}

func (s *BudgetService) Add(ctx context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error) {
	if err := b.Validate(); err != nil {
		return core.MonthlyBudget{}, err
	}
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.MonthlyBudget{}, fmt.Errorf("save budget: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, created.ID)
	return created, nil
}

func (s *BudgetService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

func (s *BudgetService) Get(ctx context.Context, id int64) (core.MonthlyBudget, error) {
	return s.store.GetBudget(ctx, id)
}

func (s *BudgetService) List(ctx context.Context, f query.Filter, page query.Page) ([]core.MonthlyBudget, int, error) {
	return s.store.ListBudgets(ctx, f, page)
}

// LatestFor returns the current budget for (month, year): the record
// with the maximum created_at among matches.
func (s *BudgetService) LatestFor(ctx context.Context, month, year int) (core.MonthlyBudget, error) {
	return s.store.LatestBudgetFor(ctx, month, year)
}

func (s *BudgetService) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, amqp.EntityBudget, action, id); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to publish budget change event",
			"action", action, "id", id, "error", err)
	}
}
