package services

import (
	"context"
	"fmt"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	applog "budgetbook/internal/log"
	"budgetbook/internal/query"
)

// PlanService handles plan writes and reads, publishing a change event
// after every successful write.
type PlanService struct {
	store  PlanStore
	events EventPublisher
}

func NewPlanService(store PlanStore, events EventPublisher) *PlanService {
	return &PlanService{store: store, events: events}
}

func (s *PlanService) Create(ctx context.Context, p core.Plan) (core.Plan, error) {
	if err := p.Validate(); err != nil {
		return core.Plan{}, err
	}
	created, err := s.store.CreatePlan(ctx, p)
	if err != nil {
		return core.Plan{}, fmt.Errorf("save plan: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, created.ID)
	return created, nil
}

// Update replaces every field of the plan except id and created_at.
func (s *PlanService) Update(ctx context.Context, p core.Plan) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdatePlan(ctx, p); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	s.publish(ctx, amqp.ActionUpdated, p.ID)
	return nil
}

func (s *PlanService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

func (s *PlanService) Get(ctx context.Context, id int64) (core.Plan, error) {
	return s.store.GetPlan(ctx, id)
}

func (s *PlanService) List(ctx context.Context, f query.Filter, page query.Page) ([]core.Plan, int, error) {
	return s.store.ListPlans(ctx, f, page)
}

func (s *PlanService) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishChange(ctx, amqp.EntityPlan, action, id); err != nil {
		// The write already succeeded; the event stream is best effort.
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to publish plan change event",
			"action", action, "id", id, "error", err)
	}
}
