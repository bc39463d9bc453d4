package cli

import (
	"testing"
	"time"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "$0.00"},
		{"small", 42.5, "$42.50"},
		{"thousands", 1234.56, "$1,234.56"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative", -9876.54, "-$9,876.54"},
		{"exact thousand", 1000, "$1,000.00"},
		{"rounding", 0.005, "$0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUSD(tt.amount); got != tt.want {
				t.Errorf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{5.25, "+5.25%"},
		{-3.1, "-3.10%"},
		{0, "0.00%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.value); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(123.456); got != "123.46" {
		t.Errorf("FormatPrice dollar = %q", got)
	}
	if got := FormatPrice(0.097123); got != "0.097123" {
		t.Errorf("FormatPrice sub-dollar = %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		qty  float64
		want string
	}{
		{10, "10"},
		{0.5, "0.5"},
		{0.00100000, "0.001"},
	}

	for _, tt := range tests {
		if got := FormatQuantity(tt.qty); got != tt.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.qty, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{26 * time.Hour, "1d 2h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString short = %q", got)
	}
	if got := TruncateString("a very long company name", 10); got != "a very ..." {
		t.Errorf("TruncateString long = %q", got)
	}
}
