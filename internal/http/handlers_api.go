package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/query"
)

// finderPageSize is the page window for the finder endpoints.
const finderPageSize = 100

// JSON shapes for the read API. Amounts are numbers in currency units,
// dates ISO-8601.
type planJSON struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Planned   float64   `json:"planned_expense"`
	Day       *int      `json:"day"`
	Month     *int      `json:"month"`
	Year      *int      `json:"year"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type budgetJSON struct {
	ID        int64     `json:"id"`
	Budget    float64   `json:"budget"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func newPlanJSON(p core.Plan) planJSON {
	return planJSON{
		ID:        p.ID,
		Title:     p.Title,
		Planned:   p.Planned.Amount(),
		Day:       p.Day,
		Month:     p.Month,
		Year:      p.Year,
		Category:  p.Category,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func newBudgetJSON(b core.MonthlyBudget) budgetJSON {
	return budgetJSON{
		ID:        b.ID,
		Budget:    b.Budget.Amount(),
		Month:     b.Month,
		Year:      b.Year,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func (s *Server) handleAPIPlans(w http.ResponseWriter, r *http.Request) {
	f := query.FromValues(r.URL.Query())
	page := query.PageFromValues(r.URL.Query())
	page.Size = s.pageSize

	plans, total, err := s.plans.List(r.Context(), f, page)
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan list error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not load plans")
		return
	}

	items := make([]planJSON, 0, len(plans))
	for _, p := range plans {
		items = append(items, newPlanJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plans":       items,
		"total":       total,
		"page":        page.Number,
		"total_pages": page.TotalPages(total),
	})
}

func (s *Server) handleAPIBudgets(w http.ResponseWriter, r *http.Request) {
	f := query.FromValues(r.URL.Query())
	page := query.PageFromValues(r.URL.Query())
	page.Size = s.pageSize

	budgets, total, err := s.budgets.List(r.Context(), f, page)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not load budgets")
		return
	}

	items := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		items = append(items, newBudgetJSON(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"budgets":     items,
		"total":       total,
		"page":        page.Number,
		"total_pages": page.TotalPages(total),
	})
}

// handleAPIFindPlansByDate matches plans on any combination of day,
// month and year (explicit parameters or a combined ym token). Absent
// parameters match everything. Results are paged so large matches are
// never silently truncated.
func (s *Server) handleAPIFindPlansByDate(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	var f query.Filter
	if y, m, ok := query.ParseYearMonth(values.Get("ym")); ok {
		f.Year = &y
		f.Month = &m
	}
	if y, ok := query.ParseOptionalInt(values.Get("year")); ok {
		f.Year = &y
	}
	if m, ok := query.ParseOptionalInt(values.Get("month")); ok {
		f.Month = &m
	}
	if d, ok := query.ParseOptionalInt(values.Get("day")); ok {
		f.Day = &d
	}

	page := query.PageFromValues(values)
	page.Size = finderPageSize
	plans, total, err := s.plans.List(r.Context(), f, page)
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan finder error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not load plans")
		return
	}

	items := make([]planJSON, 0, len(plans))
	for _, p := range plans {
		items = append(items, newPlanJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plans":       items,
		"total":       total,
		"page":        page.Number,
		"total_pages": page.TotalPages(total),
	})
}

// handleAPIFindPlansByCategory matches the category as a
// case-insensitive substring. An empty category yields an empty list,
// not the full collection.
func (s *Server) handleAPIFindPlansByCategory(w http.ResponseWriter, r *http.Request) {
	category := sanitizeInput(r.URL.Query().Get("category"))
	items := make([]planJSON, 0)
	if category == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"plans":       items,
			"total":       0,
			"page":        1,
			"total_pages": 0,
		})
		return
	}

	f := query.Filter{Category: category}
	page := query.PageFromValues(r.URL.Query())
	page.Size = finderPageSize
	plans, total, err := s.plans.List(r.Context(), f, page)
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan finder error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not load plans")
		return
	}

	for _, p := range plans {
		items = append(items, newPlanJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plans":       items,
		"total":       total,
		"page":        page.Number,
		"total_pages": page.TotalPages(total),
	})
}

func (s *Server) handleAPIBudgetSummary(w http.ResponseWriter, r *http.Request) {
	month, year, ok := pathMonthYear(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid month or year")
		return
	}

	sum, err := s.getSummary(r.Context(), month, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget summary error", "error", err, "month", month, "year", year)
		writeJSONError(w, http.StatusInternalServerError, "could not compute budget summary")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":      sum.Month,
		"year":       sum.Year,
		"budget":     sum.Budget.Amount(),
		"spent":      sum.Spent.Amount(),
		"remaining":  sum.Remaining.Amount(),
		"has_budget": sum.HasBudget,
	})
}

func (s *Server) handleAPICategoryReport(w http.ResponseWriter, r *http.Request) {
	month, year, ok := pathMonthYear(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid month or year")
		return
	}

	rows, err := s.getBreakdown(r.Context(), month, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category report error", "error", err, "month", month, "year", year)
		writeJSONError(w, http.StatusInternalServerError, "could not compute category report")
		return
	}

	type rowJSON struct {
		Category   string  `json:"category"`
		Planned    float64 `json:"planned"`
		Actual     float64 `json:"actual"`
		Difference float64 `json:"difference"`
	}
	items := make([]rowJSON, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowJSON{
			Category:   row.Category,
			Planned:    row.Planned.Amount(),
			Actual:     row.Actual.Amount(),
			Difference: core.Money{Cents: row.Planned.Cents - row.Actual.Cents}.Amount(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":      month,
		"year":       year,
		"categories": items,
	})
}

func (s *Server) handleAPIDailyReport(w http.ResponseWriter, r *http.Request) {
	month, year, ok := pathMonthYear(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid month or year")
		return
	}

	totals, err := s.getDaily(r.Context(), month, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily report error", "error", err, "month", month, "year", year)
		writeJSONError(w, http.StatusInternalServerError, "could not compute daily report")
		return
	}

	days := make([]float64, 0, len(totals))
	for _, m := range totals {
		days = append(days, m.Amount())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month": month,
		"year":  year,
		"days":  days,
	})
}
