package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"abc", 0, false},
		{"1e3", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"10000000000", MaxCents, true},
		{"10000000000.01", 0, false},
		{"9999999999999999.99", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := map[int64]string{
		0:         "$0.00",
		5:         "$0.05",
		5000:      "$50.00",
		123450:    "$1,234.50",
		100000000: "$1,000,000.00",
		-2550:     "-$25.50",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).Format(); got != want {
			t.Errorf("Format(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 5000})
	if err != nil || string(b) != "50" {
		t.Fatalf("marshal 5000 cents = %s (err=%v)", b, err)
	}
	b, _ = json.Marshal(Money{Cents: 1234})
	if string(b) != "12.34" {
		t.Fatalf("marshal 1234 cents = %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"19.99"`), &m); err != nil || m.Cents != 1999 {
		t.Fatalf("quoted decimal: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &m); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for non-numeric amount, got %v", err)
	}
}

func TestMoneyJSONRange(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"wraps int64", `184467440737095516.17`},
		{"above cap", `10000000000.01`},
		{"quoted above cap", `"99999999999999"`},
		{"large negative", `-10000000000.01`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			if err := json.Unmarshal([]byte(tt.in), &m); !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("Unmarshal(%s) = %d cents, err %v; want ErrInvalidAmount", tt.in, m.Cents, err)
			}
		})
	}

	var m Money
	if err := json.Unmarshal([]byte(`10000000000`), &m); err != nil || m.Cents != MaxCents {
		t.Fatalf("cap value: cents=%d err=%v", m.Cents, err)
	}
	if err := (Money{Cents: MaxCents + 1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate above cap = %v", err)
	}
}

func TestMoneyAddSaturates(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"plain", 150, 250, 400},
		{"negative", -150, 50, -100},
		{"overflow", math.MaxInt64 - 1, 5, math.MaxInt64},
		{"underflow", math.MinInt64 + 1, -5, math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Money{Cents: tt.a}).Add(Money{Cents: tt.b}); got.Cents != tt.want {
				t.Errorf("%d + %d = %d, want %d", tt.a, tt.b, got.Cents, tt.want)
			}
		})
	}
}
