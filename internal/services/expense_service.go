package services

import (
	"context"
	"fmt"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	applog "budgetbook/internal/log"
	"budgetbook/internal/query"
)

// ExpenseService handles expense writes and reads. The repository
// recomputes the denormalized year/month from the date inside every
// write, so callers only ever supply the date.
type ExpenseService struct {
	store  ExpenseStore
	events EventPublisher
}

func NewExpenseService(store ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, created.ID)
	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	s.publish(ctx, amqp.ActionUpdated, e.ID)
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, f query.Filter, page query.Page) ([]core.Expense, int, error) {
	return s.store.ListExpenses(ctx, f, page)
}

func (s *ExpenseService) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, amqp.EntityExpense, action, id); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to publish expense change event",
			"action", action, "id", id, "error", err)
	}
}
