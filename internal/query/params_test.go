package query

import "testing"

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"plain", "42", 42, true},
		{"negative", "-3", -3, true},
		{"whitespace", " 7 ", 7, true},
		{"empty", "", 0, false},
		{"letters", "abc", 0, false},
		{"decimal", "3.5", 0, false},
		{"mixed", "12x", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOptionalInt(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseOptionalInt(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePositiveCents(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{"dot decimal", "12.50", 1250, true},
		{"comma decimal", "12,50", 1250, true},
		{"integer", "5", 500, true},
		{"zero is absent", "0", 0, false},
		{"zero decimal is absent", "0.00", 0, false},
		{"negative is absent", "-2", 0, false},
		{"empty", "", 0, false},
		{"garbage", "free", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePositiveCents(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParsePositiveCents(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"1", 1, true},
		{"9007199254740993", 9007199254740993, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseID(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		input     string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"2025-06", 2025, 6, true},
		{"2025-1", 2025, 1, true},
		{"2025-12", 2025, 12, true},
		{"2025-13", 0, 0, false},
		{"2025-0", 0, 0, false},
		{"0-06", 0, 0, false},
		{"2025", 0, 0, false},
		{"", 0, 0, false},
		{"garbage-06", 0, 0, false},
	}
	for _, tt := range tests {
		year, month, ok := ParseYearMonth(tt.input)
		if ok != tt.wantOK || year != tt.wantYear || month != tt.wantMonth {
			t.Errorf("ParseYearMonth(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.input, year, month, ok, tt.wantYear, tt.wantMonth, tt.wantOK)
		}
	}
}
