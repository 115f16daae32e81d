package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
	"budgetbook/internal/storage"
)

type expenseView struct {
	ID       int64
	Title    string
	Date     string
	Amount   string
	Category string
	Note     string
}

func newExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:       e.ID,
		Title:    e.Title,
		Date:     e.Date.Format("2006-01-02"),
		Amount:   formatEuros(e.Amount.Cents),
		Category: e.Category,
		Note:     e.Note,
	}
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := query.FromValues(r.URL.Query())
	page := query.PageFromValues(r.URL.Query())
	page.Size = s.pageSize

	expenses, total, err := s.expenses.List(ctx, f, page)
	if err != nil {
		slog.ErrorContext(ctx, "Expense list error", "error", err)
		InternalServerError("Could not load expenses").Write(w)
		return
	}

	data := struct {
		Expenses   []expenseView
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
	for _, e := range expenses {
		data.Expenses = append(data.Expenses, newExpenseView(e))
	}

	s.render(w, r, "expenses.html", data)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	e, err := expenseFromForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError("Invalid expense data: " + err.Error()).Write(w)
		return
	}

	created, err := s.expenses.Create(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense create error", "error", err, "title", e.Title)
		InternalServerError("Could not save the expense").Write(w)
		return
	}

	s.invalidateMonth(created.Year, created.Month)
	NewHTMXResponse().
		TriggerChanged("expense", "created", created.Year, created.Month).
		TriggerFormReset().
		TriggerSuccessNotification("Expense saved").
		BodyHTML(`<div class="success">Expense saved: ` + template.HTMLEscapeString(created.Title) +
			` (` + formatEuros(created.Amount.Cents) + `)</div>`).
		Write(w)
}

func (s *Server) handleEditExpensePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	e, err := s.expenses.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		NotFoundError("Expense not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense get error", "error", err, "id", id)
		InternalServerError("Could not load the expense").Write(w)
		return
	}

	data := struct {
		ID       int64
		Title    string
		Date     string
		Amount   string
		Category string
		Note     string
	}{
		ID:       e.ID,
		Title:    e.Title,
		Date:     e.Date.Format("2006-01-02"),
		Amount:   e.Amount.String(),
		Category: e.Category,
		Note:     e.Note,
	}

	s.render(w, r, "expense_edit.html", data)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	e, err := expenseFromForm(r.PostForm)
	if err != nil {
		UnprocessableEntityError("Invalid expense data: " + err.Error()).Write(w)
		return
	}
	e.ID = id

	// The expense may move between months; drop both.
	if old, err := s.expenses.Get(r.Context(), id); err == nil {
		s.invalidateMonth(old.Year, old.Month)
	}

	if err := s.expenses.Update(r.Context(), e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Expense update error", "error", err, "id", id)
		InternalServerError("Could not update the expense").Write(w)
		return
	}

	s.invalidateMonth(e.Year, e.Month)
	NewHTMXResponse().
		TriggerChanged("expense", "updated", e.Year, e.Month).
		TriggerSuccessNotification("Expense updated").
		BodyHTML(`<div class="success">Expense updated: ` + template.HTMLEscapeString(e.Title) + `</div>`).
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError("Expense not found").Write(w)
		return
	}

	var year, month int
	if old, err := s.expenses.Get(r.Context(), id); err == nil {
		year, month = old.Year, old.Month
		s.invalidateMonth(year, month)
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id)
		InternalServerError("Could not delete the expense").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerChanged("expense", "deleted", year, month).
		TriggerSuccessNotification("Expense deleted").
		BodyHTML(`<div class="success">Expense deleted</div>`).
		Write(w)
}
