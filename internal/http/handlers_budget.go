package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
	"budgetbook/internal/storage"
)

type budgetView struct {
	ID        int64
	Budget    string
	Month     int
	Year      int
	Notes     string
	CreatedAt string
}

func newBudgetView(b core.MonthlyBudget) budgetView {
	return budgetView{
		ID:        b.ID,
		Budget:    formatEuros(b.Budget.Cents),
		Month:     b.Month,
		Year:      b.Year,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func (s *Server) handleBudgetsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := query.FromValues(r.URL.Query())
	page := query.PageFromValues(r.URL.Query())
	page.Size = s.pageSize

	budgets, total, err := s.budgets.List(ctx, f, page)
	if err != nil {
		slog.ErrorContext(ctx, "Budget list error", "error", err)
		InternalServerError("Could not load budgets").Write(w)
		return
	}

	data := struct {
		Budgets    []budgetView
		Filter     filterView
		Page       int
		TotalPages int
		PrevPage   int
		NextPage   int
		Total      int
	}{
		Filter:     newFilterView(f),
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
		PrevPage:   page.Number - 1,
		NextPage:   page.Number + 1,
		Total:      total,
	}
	for _, b := range budgets {
		data.Budgets = append(data.Budgets, newBudgetView(b))
	}

	s.render(w, r, "budgets.html", data)
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	b, err := budgetFromForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError("Invalid budget data: " + err.Error()).Write(w)
		return
	}

	created, err := s.budgets.Add(r.Context(), b)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget add error", "error", err, "month", b.Month, "year", b.Year)
		InternalServerError("Could not save the budget").Write(w)
		return
	}

	s.invalidateMonth(created.Year, created.Month)
	NewHTMXResponse().
		TriggerChanged("budget", "created", created.Year, created.Month).
		TriggerFormReset().
		TriggerSuccessNotification("Budget saved").
		BodyHTML(`<div class="success">Budget set for ` + twoDigits(created.Month) + `/` +
			strconv.Itoa(created.Year) + `: ` + formatEuros(created.Budget.Cents) + `</div>`).
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Budget not found").Write(w)
		return
	}

	var year, month int
	if old, err := s.budgets.Get(r.Context(), id); err == nil {
		year, month = old.Year, old.Month
		s.invalidateMonth(year, month)
	}

	if err := s.budgets.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Budget not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Budget delete error", "error", err, "id", id)
		InternalServerError("Could not delete the budget").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerChanged("budget", "deleted", year, month).
		TriggerSuccessNotification("Budget deleted").
		BodyHTML(`<div class="success">Budget deleted</div>`).
		Write(w)
}
