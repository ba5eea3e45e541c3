package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"0", 0},
		{"10", 1000},
		{"10.004", 1000},
		{"10.005", 1001},
		{"0.125", 13},
		{"2.675", 268},
		{"-1.005", -101},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FromDecimal(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("FromDecimal(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAndString(t *testing.T) {
	c, err := Parse("27.5")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c != 2750 {
		t.Errorf("Parse(27.5) = %d, want 2750", c)
	}
	if c.String() != "27.50" {
		t.Errorf("String() = %q, want 27.50", c.String())
	}

	if _, err := Parse("twelve"); err == nil {
		t.Error("expected error for malformed amount")
	}
}

func TestMulQuantity(t *testing.T) {
	tests := []struct {
		name string
		unit Cents
		qty  string
		want Cents
	}{
		{"whole quantity", 1000, "3", 3000},
		{"third of a unit", 1000, "0.33333333", 333},
		{"half-up on half cent", 333, "0.5", 167},
		{"zero quantity", 1299, "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.unit.MulQuantity(decimal.RequireFromString(tt.qty))
			if got != tt.want {
				t.Errorf("MulQuantity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyPercentOff(t *testing.T) {
	tests := []struct {
		name     string
		subtotal Cents
		pct      string
		want     Cents
	}{
		{"ten percent", 3000, "10", 2700},
		{"zero percent", 3000, "0", 3000},
		{"full discount", 3000, "100", 0},
		{"rounds half up", 1005, "50", 503},
		{"fractional percent", 999, "12.5", 874},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.subtotal.ApplyPercentOff(decimal.RequireFromString(tt.pct))
			if got != tt.want {
				t.Errorf("ApplyPercentOff(%d, %s) = %d, want %d", tt.subtotal, tt.pct, got, tt.want)
			}
		})
	}
}

func TestDivideRound(t *testing.T) {
	if got := Cents(2700).DivideRound(3); got != 900 {
		t.Errorf("DivideRound(2700, 3) = %d, want 900", got)
	}
	if got := Cents(1000).DivideRound(3); got != 333 {
		t.Errorf("DivideRound(1000, 3) = %d, want 333", got)
	}
	if got := Cents(5).DivideRound(2); got != 3 {
		t.Errorf("DivideRound(5, 2) = %d, want 3", got)
	}
}
