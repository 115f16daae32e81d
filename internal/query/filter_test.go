package query

import (
	"net/url"
	"testing"
)

func TestFromValues(t *testing.T) {
	t.Run("absent params contribute no predicate", func(t *testing.T) {
		f := FromValues(url.Values{})
		if !f.IsZero() {
			t.Errorf("expected zero filter, got %+v", f)
		}
	})

	t.Run("malformed ints are absent", func(t *testing.T) {
		f := FromValues(url.Values{"year": {"twenty"}, "month": {"3.5"}, "day": {""}})
		if !f.IsZero() {
			t.Errorf("expected zero filter, got %+v", f)
		}
	})

	t.Run("ym token decomposes", func(t *testing.T) {
		f := FromValues(url.Values{"ym": {"2025-06"}})
		if f.Year == nil || *f.Year != 2025 || f.Month == nil || *f.Month != 6 {
			t.Errorf("ym not decomposed: %+v", f)
		}
	})

	t.Run("explicit year overrides ym", func(t *testing.T) {
		f := FromValues(url.Values{"ym": {"2025-06"}, "year": {"2024"}})
		if f.Year == nil || *f.Year != 2024 {
			t.Errorf("explicit year should win, got %+v", f.Year)
		}
		if f.Month == nil || *f.Month != 6 {
			t.Errorf("ym month should survive, got %+v", f.Month)
		}
	})

	t.Run("all criteria", func(t *testing.T) {
		f := FromValues(url.Values{
			"category": {"food"},
			"q":        {"pizza"},
			"year":     {"2025"},
			"month":    {"3"},
			"day":      {"14"},
		})
		if f.Category != "food" || f.Text != "pizza" {
			t.Errorf("text criteria wrong: %+v", f)
		}
		if f.Year == nil || *f.Year != 2025 || f.Month == nil || *f.Month != 3 || f.Day == nil || *f.Day != 14 {
			t.Errorf("date criteria wrong: %+v", f)
		}
	})
}

func TestPageMath(t *testing.T) {
	tests := []struct {
		name       string
		page       Page
		wantOffset int
		wantLimit  int
	}{
		{"defaults", Page{}, 0, DefaultPageSize},
		{"first page", Page{Number: 1, Size: 10}, 0, 10},
		{"third page", Page{Number: 3, Size: 10}, 20, 10},
		{"custom size", Page{Number: 2, Size: 25}, 25, 25},
		{"zero page clamps", Page{Number: 0, Size: 10}, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
			if got := tt.page.Limit(); got != tt.wantLimit {
				t.Errorf("Limit() = %d, want %d", got, tt.wantLimit)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{25, 10, 3},
		{30, 10, 3},
		{31, 10, 4},
		{0, 10, 0},
		{1, 10, 1},
	}
	for _, tt := range tests {
		p := Page{Size: tt.size}
		if got := p.TotalPages(tt.total); got != tt.want {
			t.Errorf("TotalPages(%d) with size %d = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPageFromValues(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{"", 1},
		{"0", 1},
		{"-2", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		p := PageFromValues(url.Values{"page": {tt.input}})
		if p.Number != tt.want {
			t.Errorf("PageFromValues(page=%q).Number = %d, want %d", tt.input, p.Number, tt.want)
		}
	}
}
