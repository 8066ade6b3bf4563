package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	m := NewMoney(12.345)
	if m.String() != "12.35" { // rounded for display
		t.Fatalf("NewMoney display mismatch: got %s", m.String())
	}

	d := stddec.NewFromFloat(10.125)
	m2 := NewMoneyFromDecimal(d)
	if !m2.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m2.Decimal, d)
	}

	m3, err := NewMoneyFromString("123.45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m3.String() != "123.45" {
		t.Fatalf("NewMoneyFromString display mismatch: got %s", m3.String())
	}

	if _, err := NewMoneyFromString("not-a-number"); err == nil {
		t.Fatalf("expected error for invalid string")
	}
}

func TestRounding(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"2.355", "2.36"},
		{"2.365", "2.37"},
		{"-2.345", "-2.35"},
	}
	for _, c := range cases {
		m, _ := NewMoneyFromString(c.in)
		got := m.Round().String()
		if got != c.out {
			t.Fatalf("round(%s) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestSwissFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "CHF 0.00"},
		{"999.5", "CHF 999.50"},
		{"1000", "CHF 1'000.00"},
		{"12345.6", "CHF 12'345.60"},
		{"1234567.891", "CHF 1'234'567.89"},
		{"-2500.1", "-CHF 2'500.10"},
		{"-0.001", "CHF 0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, m.Format())
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := NewMoney(100)
	b := NewMoney(30.5)
	assert.Equal(t, "130.50", a.Add(b).String())
	assert.Equal(t, "69.50", a.Sub(b).String())
	assert.Equal(t, "0.20", a.Percent(stddec.NewFromFloat(0.2)).String())
	assert.True(t, Zero().IsZero())
	assert.True(t, b.Sub(a).IsNegative())
}

func TestCapAt(t *testing.T) {
	d := stddec.NewFromInt
	assert.True(t, CapAt(d(5000), d(3300)).Equal(d(3300)), "claim above cap returns cap")
	assert.True(t, CapAt(d(3300), d(3300)).Equal(d(3300)), "claim equal to cap")
	assert.True(t, CapAt(d(1200), d(3300)).Equal(d(1200)), "claim below cap unchanged")
	assert.True(t, CapAt(d(0), d(3300)).IsZero(), "zero claim stays zero")
	assert.True(t, CapAt(d(99999), stddec.Zero).Equal(d(99999)), "zero maximum is unbounded")
}

func TestClamp(t *testing.T) {
	d := stddec.NewFromInt
	tests := []struct {
		name     string
		amount   stddec.Decimal
		min, max stddec.Decimal
		want     stddec.Decimal
	}{
		{"within bounds", d(400), d(100), d(6000), d(400)},
		{"below minimum", d(50), d(100), d(6000), d(100)},
		{"above maximum", d(9000), d(100), d(6000), d(6000)},
		{"no bounds", d(9000), stddec.Zero, stddec.Zero, d(9000)},
		{"only maximum", d(9000), stddec.Zero, d(6000), d(6000)},
		{"only minimum", d(0), d(100), stddec.Zero, d(100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.amount, tt.min, tt.max)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestPercentOfAndNonNegative(t *testing.T) {
	got := PercentOf(stddec.NewFromInt(500000), stddec.NewFromFloat(0.2))
	assert.True(t, got.Equal(stddec.NewFromInt(1000)), "0.2%% of 500000, got %s", got)
	assert.True(t, NonNegative(stddec.NewFromInt(-5)).IsZero())
	assert.True(t, NonNegative(stddec.NewFromInt(5)).Equal(stddec.NewFromInt(5)))
}
