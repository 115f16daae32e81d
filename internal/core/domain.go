package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Money struct {
		Cents int64
	}

	// Plan is a planned spend. Day, Month and Year are independently
	// optional: a plan may carry only a month+year, only a year, or a
	// full date. Nil means "not set".
	Plan struct {
		ID        int64
		Title     string
		Planned   Money
		Day       *int
		Month     *int
		Year      *int
		Category  string
		Notes     string
		CreatedAt time.Time
	}

	// Expense is an actual spend. Year and Month are denormalized from
	// Date and recomputed on every write path; they are never caller
	// supplied.
	Expense struct {
		ID        int64
		Title     string
		Date      time.Time
		Year      int
		Month     int
		Amount    Money
		Category  string
		Note      string
		CreatedAt time.Time
	}

	// MonthlyBudget is a spending cap for one calendar month. Records are
	// append-only: several may exist for the same (month, year) and the
	// current one is the record with the latest CreatedAt.
	MonthlyBudget struct {
		ID        int64
		Budget    Money
		Month     int
		Year      int
		Notes     string
		CreatedAt time.Time
	}
)

// CategorySum is one grouped-sum row: total cents for a category within
// some month scope.
type CategorySum struct {
	Category string
	Cents    int64
}

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidDay    = errors.New("invalid day")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
)

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// SyncDateParts recomputes the denormalized year/month fields from Date.
// Every expense write path must call this before persisting.
func (e *Expense) SyncDateParts() {
	e.Year = e.Date.Year()
	e.Month = int(e.Date.Month())
}

func (p Plan) Validate() error {
	if len(strings.TrimSpace(p.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(p.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := p.Planned.Validate(); err != nil {
		return err
	}
	if p.Month != nil && (*p.Month < 1 || *p.Month > 12) {
		return ErrInvalidMonth
	}
	if p.Day != nil && (*p.Day < 1 || *p.Day > 31) {
		return ErrInvalidDay
	}
	if p.Year != nil && *p.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (b MonthlyBudget) Validate() error {
	if b.Budget.Cents <= 0 {
		return ErrInvalidAmount
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year <= 0 {
		return ErrInvalidYear
	}
	return nil
}

// DaysIn returns the number of days in the given month, accounting for
// leap years. time.Date normalizes day 0 of the next month to the last
// day of this one.
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
