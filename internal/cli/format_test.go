package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatKWh(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.000 kWh"},
		{0.5, "0.500 kWh"},
		{99.9994, "99.999 kWh"},
		{123.45, "123.5 kWh"},
		{1234.56, "1,234.6 kWh"},
		{1999.96, "2,000.0 kWh"},
		{25000, "25.00 MWh"},
	}
	for _, tt := range tests {
		if got := FormatKWh(tt.in); got != tt.want {
			t.Errorf("FormatKWh(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "₪0.50"},
		{42.123, "₪42.12"},
		{250.4, "₪250"},
		{12345.6, "₪12,346"},
	}
	for _, tt := range tests {
		if got := FormatCost("₪", tt.in); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	for in, want := range map[int64]string{0: "0", 999: "999", 1000: "1,000", -1234567: "-1,234,567"} {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDateRange(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatDateRange(first, first, 1); got != "2024-01-01 .. 2024-01-01 (1 day)" {
		t.Errorf("FormatDateRange = %q", got)
	}
	if FormatDate(time.Time{}) != "-" {
		t.Error("zero date should render as -")
	}
}

func TestRenderTable_AlignsWideCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Season", "kWh"},
		Rows: [][]string{
			{"Winter", "1.000"},
			SeparatorRow,
			{"Total", "₪12"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	// Every line of the box has the same display width.
	w := len([]rune(stripANSI(lines[0])))
	for i, l := range lines {
		if got := len([]rune(stripANSI(l))); got != w {
			t.Errorf("line %d width %d, want %d: %q", i, got, w, l)
		}
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	if got := RenderHorizontalBar(5, 10, 10); got != "█████     " {
		t.Errorf("half bar = %q", got)
	}
	if got := RenderHorizontalBar(0.01, 10, 10); !strings.HasPrefix(got, "█") {
		t.Errorf("tiny value should still draw one cell: %q", got)
	}
	if got := RenderHorizontalBar(0, 10, 4); got != "    " {
		t.Errorf("zero bar = %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			inEsc = true
		case inEsc:
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
