package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
	"budgetbook/internal/storage"
)

// planView is the template-facing shape of a plan.
type planView struct {
	ID       int64
	Title    string
	Planned  string
	When     string
	Category string
	Notes    string
}

func newPlanView(p core.Plan) planView {
	return planView{
		ID:       p.ID,
		Title:    p.Title,
		Planned:  formatEuros(p.Planned.Cents),
		When:     planWhenLabel(p),
		Category: p.Category,
		Notes:    p.Notes,
	}
}

// planWhenLabel renders the optional day/month/year parts that are set,
// most specific first ("14/03/2025", "03/2025", "2025" or "-").
func planWhenLabel(p core.Plan) string {
	switch {
	case p.Day != nil && p.Month != nil && p.Year != nil:
		return twoDigits(*p.Day) + "/" + twoDigits(*p.Month) + "/" + strconv.Itoa(*p.Year)
	case p.Month != nil && p.Year != nil:
		return twoDigits(*p.Month) + "/" + strconv.Itoa(*p.Year)
	case p.Year != nil:
		return strconv.Itoa(*p.Year)
	default:
		return "-"
	}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// filterView echoes the submitted criteria back into the filter form.
type filterView struct {
	Category string
	Text     string
	Year     string
	Month    string
	Day      string
}

func newFilterView(f query.Filter) filterView {
	v := filterView{Category: f.Category, Text: f.Text}
	if f.Year != nil {
		v.Year = strconv.Itoa(*f.Year)
	}
	if f.Month != nil {
		v.Month = strconv.Itoa(*f.Month)
	}
	if f.Day != nil {
		v.Day = strconv.Itoa(*f.Day)
	}
	return v
}

type summaryView struct {
	Month     int
	Year      int
	HasBudget bool
	Budget    string
	Spent     string
	Remaining string
	Over      bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := query.FromValues(r.URL.Query())
	page := query.PageFromValues(r.URL.Query())
	page.Size = s.pageSize

	plans, total, err := s.plans.List(ctx, f, page)
	if err != nil {
		slog.ErrorContext(ctx, "Plan list error", "error", err)
		InternalServerError("Could not load plans").Write(w)
		return
	}

	data := struct {
		Plans      []planView
		Filter     filterView
		Page       int
		TotalPages int
		PrevPage   int
		NextPage   int
		Total      int
		Summary    summaryView
	}{
		Filter:     newFilterView(f),
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
		PrevPage:   page.Number - 1,
		NextPage:   page.Number + 1,
		Total:      total,
	}
	for _, p := range plans {
		data.Plans = append(data.Plans, newPlanView(p))
	}

	// Budget sidebar for the current month; a failure degrades the
	// sidebar, not the page.
	now := time.Now()
	if sum, err := s.getSummary(ctx, int(now.Month()), now.Year()); err != nil {
		slog.ErrorContext(ctx, "Budget summary error", "error", err)
	} else {
		data.Summary = summaryView{
			Month:     sum.Month,
			Year:      sum.Year,
			HasBudget: sum.HasBudget,
			Budget:    formatEuros(sum.Budget.Cents),
			Spent:     formatEuros(sum.Spent.Cents),
			Remaining: formatEuros(sum.Remaining.Cents),
			Over:      sum.Remaining.Cents < 0,
		}
	}

	s.render(w, r, "index.html", data)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	p, err := planFromForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError("Invalid plan data: " + err.Error()).Write(w)
		return
	}

	created, err := s.plans.Create(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan create error", "error", err, "title", p.Title)
		InternalServerError("Could not save the plan").Write(w)
		return
	}

	year, month := s.invalidatePlanMonth(created)
	NewHTMXResponse().
		TriggerChanged("plan", "created", year, month).
		TriggerFormReset().
		TriggerSuccessNotification("Plan saved").
		BodyHTML(`<div class="success">Plan saved: ` + template.HTMLEscapeString(created.Title) + `</div>`).
		Write(w)
}

func (s *Server) handleEditPlanPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Plan not found").Write(w)
		return
	}

	p, err := s.plans.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		NotFoundError("Plan not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan get error", "error", err, "id", id)
		InternalServerError("Could not load the plan").Write(w)
		return
	}

	data := struct {
		ID       int64
		Title    string
		Planned  string
		Day      string
		Month    string
		Year     string
		Category string
		Notes    string
	}{
		ID:       p.ID,
		Title:    p.Title,
		Planned:  p.Planned.String(),
		Category: p.Category,
		Notes:    p.Notes,
	}
	if p.Day != nil {
		data.Day = strconv.Itoa(*p.Day)
	}
	if p.Month != nil {
		data.Month = strconv.Itoa(*p.Month)
	}
	if p.Year != nil {
		data.Year = strconv.Itoa(*p.Year)
	}

	s.render(w, r, "plan_edit.html", data)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Plan not found").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	p, err := planFromForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError("Invalid plan data: " + err.Error()).Write(w)
		return
	}
	p.ID = id

	// Invalidate the month the plan used to belong to as well.
	if old, err := s.plans.Get(r.Context(), id); err == nil {
		s.invalidatePlanMonth(old)
	}

	if err := s.plans.Update(r.Context(), p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Plan not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Plan update error", "error", err, "id", id)
		InternalServerError("Could not update the plan").Write(w)
		return
	}

	year, month := s.invalidatePlanMonth(p)
	NewHTMXResponse().
		TriggerChanged("plan", "updated", year, month).
		TriggerSuccessNotification("Plan updated").
		BodyHTML(`<div class="success">Plan updated: ` + template.HTMLEscapeString(p.Title) + `</div>`).
		Write(w)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Plan not found").Write(w)
		return
	}

	var year, month int
	if old, err := s.plans.Get(r.Context(), id); err == nil {
		year, month = s.invalidatePlanMonth(old)
	}

	if err := s.plans.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Plan not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Plan delete error", "error", err, "id", id)
		InternalServerError("Could not delete the plan").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerChanged("plan", "deleted", year, month).
		TriggerSuccessNotification("Plan deleted").
		BodyHTML(`<div class="success">Plan deleted</div>`).
		Write(w)
}

// invalidatePlanMonth drops cached reports for the plan's month, when it
// has one. Plans without a full month scope never feed month reports.
func (s *Server) invalidatePlanMonth(p core.Plan) (year, month int) {
	if p.Year == nil || p.Month == nil {
		return 0, 0
	}
	s.invalidateMonth(*p.Year, *p.Month)
	return *p.Year, *p.Month
}
