package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"integer", "12", 1200, false},
		{"dot separator", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"single fraction digit", "0.5", 50, false},
		{"bare fraction", ".75", 75, false},
		{"third decimal rounds up", "12.346", 1235, false},
		{"third decimal rounds down", "12.344", 1234, false},
		{"half rounds up", "0.005", 1, false},
		{"zero", "0", 0, false},
		{"whitespace trimmed", "  7.50  ", 750, false},
		{"empty", "", 0, true},
		{"negative rejected", "-1.00", 0, true},
		{"plus sign rejected", "+1.00", 0, true},
		{"letters rejected", "abc", 0, true},
		{"two separators rejected", "1.2.3", 0, true},
		{"mixed separators rejected", "1,2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{0, "0.00"},
		{5, "0.05"},
		{-50, "-0.50"},
		{-15000, "-150.00"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyAmount(t *testing.T) {
	if got := (Money{Cents: 1234}).Amount(); got != 12.34 {
		t.Errorf("Amount() = %v, want 12.34", got)
	}
	if got := (Money{Cents: -15000}).Amount(); got != -150.0 {
		t.Errorf("Amount() = %v, want -150", got)
	}
}
