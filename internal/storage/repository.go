package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/query"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for lookups by id (or latest-budget reads)
// that match nothing. Callers decide whether that becomes a user-visible
// message; it is never a hard failure.
var ErrNotFound = errors.New("record not found")

// timeLayout is how timestamps are persisted. RFC3339 keeps the day
// component at a fixed offset (substr(date, 9, 2)) for SQL extraction.
const timeLayout = time.RFC3339

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// whereClause translates a filter specification into a SQL conjunction.
// Absent criteria contribute nothing, and so do criteria the entity has
// no column for: categoryCol and dayExpr name the category column and
// the day-of-month expression when the entity has them, "" otherwise;
// textCols are the columns the free-text predicate searches.
func whereClause(f query.Filter, categoryCol, dayExpr string, textCols ...string) (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" && categoryCol != "" {
		conds = append(conds, "LOWER("+categoryCol+") LIKE '%' || LOWER(?) || '%'")
		args = append(args, f.Category)
	}
	if f.Text != "" && len(textCols) > 0 {
		var ors []string
		for _, col := range textCols {
			ors = append(ors, "LOWER("+col+") LIKE '%' || LOWER(?) || '%'")
			args = append(args, f.Text)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Year != nil {
		conds = append(conds, "year = ?")
		args = append(args, *f.Year)
	}
	if f.Month != nil {
		conds = append(conds, "month = ?")
		args = append(args, *f.Month)
	}
	if f.Day != nil && dayExpr != "" {
		conds = append(conds, dayExpr+" = ?")
		args = append(args, *f.Day)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(s query.Sort, newest, oldest string) string {
	if s == query.SortOldest {
		return " ORDER BY " + oldest
	}
	return " ORDER BY " + newest
}

func (r *SQLiteRepository) countRows(ctx context.Context, table, where string, args []any) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

// ---- Plans ----

func (r *SQLiteRepository) CreatePlan(ctx context.Context, p core.Plan) (core.Plan, error) {
	p.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO plans (title, planned_cents, day, month, year, category, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Planned.Cents, p.Day, p.Month, p.Year, p.Category, p.Notes, p.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Plan{}, fmt.Errorf("create plan: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Plan{}, fmt.Errorf("plan insert id: %w", err)
	}

	slog.InfoContext(ctx, "Plan saved",
		"id", p.ID,
		"title", p.Title,
		"planned_cents", p.Planned.Cents,
		"category", p.Category)
	return p, nil
}

// UpdatePlan replaces all fields of the plan except id and created_at.
func (r *SQLiteRepository) UpdatePlan(ctx context.Context, p core.Plan) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plans SET title = ?, planned_cents = ?, day = ?, month = ?, year = ?, category = ?, notes = ?
		 WHERE id = ?`,
		p.Title, p.Planned.Cents, p.Day, p.Month, p.Year, p.Category, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return requireRow(res, "update plan")
}

func (r *SQLiteRepository) DeletePlan(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return requireRow(res, "delete plan")
}

func (r *SQLiteRepository) GetPlan(ctx context.Context, id int64) (core.Plan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, planned_cents, day, month, year, category, notes, created_at
		 FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Plan{}, ErrNotFound
	}
	if err != nil {
		return core.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// ListPlans returns the page of plans matching the filter, newest first
// by default, plus the total match count for page computation.
func (r *SQLiteRepository) ListPlans(ctx context.Context, f query.Filter, page query.Page) ([]core.Plan, int, error) {
	where, args := whereClause(f, "category", "day", "title", "notes")

	total, err := r.countRows(ctx, "plans", where, args)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT id, title, planned_cents, day, month, year, category, notes, created_at FROM plans` +
		where + orderBy(page.Sort, "created_at DESC, id DESC", "created_at ASC, id ASC") +
		" LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []core.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list plans rows: %w", err)
	}
	return plans, total, nil
}

// ---- Expenses ----

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	// year/month are derived, never trusted from the caller
	e.SyncDateParts()
	e.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (title, date, year, month, amount_cents, category, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Date.UTC().Format(timeLayout), e.Year, e.Month, e.Amount.Cents, e.Category, e.Note,
		e.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"year", e.Year,
		"month", e.Month)
	return e, nil
}

// UpdateExpense replaces all fields except id and created_at. The
// denormalized year/month are recomputed from the new date inside this
// single write.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	e.SyncDateParts()
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, date = ?, year = ?, month = ?, amount_cents = ?, category = ?, note = ?
		 WHERE id = ?`,
		e.Title, e.Date.UTC().Format(timeLayout), e.Year, e.Month, e.Amount.Cents, e.Category, e.Note, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, "update expense")
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, "delete expense")
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, date, year, month, amount_cents, category, note, created_at
		 FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, f query.Filter, page query.Page) ([]core.Expense, int, error) {
	where, args := whereClause(f, "category", "CAST(substr(date, 9, 2) AS INTEGER)", "title", "note")

	total, err := r.countRows(ctx, "expenses", where, args)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT id, title, date, year, month, amount_cents, category, note, created_at FROM expenses` +
		where + orderBy(page.Sort, "date DESC, id DESC", "date ASC, id ASC") +
		" LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list expenses rows: %w", err)
	}
	return expenses, total, nil
}

// ---- Monthly budgets ----

// CreateBudget appends a budget record. Existing records for the same
// (month, year) are kept: the model is an append-only log and reads
// resolve the latest by created_at.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error) {
	b.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_budgets (budget_cents, month, year, notes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		b.Budget.Cents, b.Month, b.Year, b.Notes, b.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.MonthlyBudget{}, fmt.Errorf("create budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.MonthlyBudget{}, fmt.Errorf("budget insert id: %w", err)
	}

	slog.InfoContext(ctx, "Monthly budget saved",
		"id", b.ID,
		"budget_cents", b.Budget.Cents,
		"month", b.Month,
		"year", b.Year)
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM monthly_budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res, "delete budget")
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.MonthlyBudget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, budget_cents, month, year, notes, created_at
		 FROM monthly_budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyBudget{}, ErrNotFound
	}
	if err != nil {
		return core.MonthlyBudget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, f query.Filter, page query.Page) ([]core.MonthlyBudget, int, error) {
	where, args := whereClause(f, "", "", "notes")

	total, err := r.countRows(ctx, "monthly_budgets", where, args)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT id, budget_cents, month, year, notes, created_at FROM monthly_budgets` +
		where + orderBy(page.Sort, "year DESC, month DESC, created_at DESC", "year ASC, month ASC, created_at ASC") +
		" LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []core.MonthlyBudget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list budgets rows: %w", err)
	}
	return budgets, total, nil
}

// LatestBudgetFor resolves the current budget for a (month, year): the
// matching record with the maximum created_at.
func (r *SQLiteRepository) LatestBudgetFor(ctx context.Context, month, year int) (core.MonthlyBudget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, budget_cents, month, year, notes, created_at
		 FROM monthly_budgets WHERE month = ? AND year = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, month, year)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyBudget{}, ErrNotFound
	}
	if err != nil {
		return core.MonthlyBudget{}, fmt.Errorf("latest budget: %w", err)
	}
	return b, nil
}

// ---- Aggregates ----

// SpentTotalCents sums expense amounts for the month; 0 when none match.
func (r *SQLiteRepository) SpentTotalCents(ctx context.Context, month, year int) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE month = ? AND year = ?",
		month, year).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("spent total: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) PlannedSumsByCategory(ctx context.Context, month, year int) ([]core.CategorySum, error) {
	return r.categorySums(ctx,
		`SELECT category, COALESCE(SUM(planned_cents), 0)
		 FROM plans WHERE month = ? AND year = ?
		 GROUP BY category ORDER BY category`, month, year)
}

func (r *SQLiteRepository) ActualSumsByCategory(ctx context.Context, month, year int) ([]core.CategorySum, error) {
	return r.categorySums(ctx,
		`SELECT category, COALESCE(SUM(amount_cents), 0)
		 FROM expenses WHERE month = ? AND year = ?
		 GROUP BY category ORDER BY category`, month, year)
}

func (r *SQLiteRepository) categorySums(ctx context.Context, q string, month, year int) ([]core.CategorySum, error) {
	rows, err := r.db.QueryContext(ctx, q, month, year)
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var sums []core.CategorySum
	for rows.Next() {
		var cs core.CategorySum
		if err := rows.Scan(&cs.Category, &cs.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category sums rows: %w", err)
	}
	return sums, nil
}

// DailyTotalCents returns expense sums keyed by day of month. Days with
// no expenses are simply absent; the report service zero-fills.
func (r *SQLiteRepository) DailyTotalCents(ctx context.Context, month, year int) (map[int]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(substr(date, 9, 2) AS INTEGER) AS day, SUM(amount_cents)
		 FROM expenses WHERE month = ? AND year = ?
		 GROUP BY day`, month, year)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]int64)
	for rows.Next() {
		var day int
		var cents int64
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals[day] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily totals rows: %w", err)
	}
	return totals, nil
}

// ---- Audit events ----

// Event is one consumed change event, appended by the worker.
type Event struct {
	ID         int64
	Entity     string
	Action     string
	EntityID   int64
	OccurredAt time.Time
	RecordedAt time.Time
}

func (r *SQLiteRepository) InsertEvent(ctx context.Context, ev Event) error {
	ev.RecordedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (entity, action, entity_id, occurred_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.Entity, ev.Action, ev.EntityID,
		ev.OccurredAt.UTC().Format(timeLayout), ev.RecordedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ---- scanning helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (core.Plan, error) {
	var p core.Plan
	var day, month, year sql.NullInt64
	var createdAt string
	if err := row.Scan(&p.ID, &p.Title, &p.Planned.Cents, &day, &month, &year, &p.Category, &p.Notes, &createdAt); err != nil {
		return core.Plan{}, err
	}
	p.Day = nullableInt(day)
	p.Month = nullableInt(month)
	p.Year = nullableInt(year)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var date, createdAt string
	if err := row.Scan(&e.ID, &e.Title, &date, &e.Year, &e.Month, &e.Amount.Cents, &e.Category, &e.Note, &createdAt); err != nil {
		return core.Expense{}, err
	}
	e.Date = parseTime(date)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func scanBudget(row rowScanner) (core.MonthlyBudget, error) {
	var b core.MonthlyBudget
	var createdAt string
	if err := row.Scan(&b.ID, &b.Budget.Cents, &b.Month, &b.Year, &b.Notes, &createdAt); err != nil {
		return core.MonthlyBudget{}, err
	}
	b.CreatedAt = parseTime(createdAt)
	return b, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
