// Package services orchestrates the storage layer, the report
// aggregations and the optional change-event stream. HTTP handlers talk
// to these services only; nothing here knows about SQL or templates.
package services

import (
	"context"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
)

// Ports over the persistent store. *storage.SQLiteRepository satisfies
// all of them; tests substitute fakes.
type (
	PlanStore interface {
		CreatePlan(ctx context.Context, p core.Plan) (core.Plan, error)
		UpdatePlan(ctx context.Context, p core.Plan) error
		DeletePlan(ctx context.Context, id int64) error
		GetPlan(ctx context.Context, id int64) (core.Plan, error)
		ListPlans(ctx context.Context, f query.Filter, page query.Page) ([]core.Plan, int, error)
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id int64) error
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		ListExpenses(ctx context.Context, f query.Filter, page query.Page) ([]core.Expense, int, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error)
		DeleteBudget(ctx context.Context, id int64) error
		GetBudget(ctx context.Context, id int64) (core.MonthlyBudget, error)
		ListBudgets(ctx context.Context, f query.Filter, page query.Page) ([]core.MonthlyBudget, int, error)
		LatestBudgetFor(ctx context.Context, month, year int) (core.MonthlyBudget, error)
	}

	ReportStore interface {
		SpentTotalCents(ctx context.Context, month, year int) (int64, error)
		PlannedSumsByCategory(ctx context.Context, month, year int) ([]core.CategorySum, error)
		ActualSumsByCategory(ctx context.Context, month, year int) ([]core.CategorySum, error)
		DailyTotalCents(ctx context.Context, month, year int) (map[int]int64, error)
		LatestBudgetFor(ctx context.Context, month, year int) (core.MonthlyBudget, error)
	}

	// EventPublisher emits change events for write operations. A nil
	// publisher disables the stream; publish failures never fail writes.
	EventPublisher interface {
		PublishChange(ctx context.Context, entity, action string, id int64) error
	}
)
