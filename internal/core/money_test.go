package core

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"50", 5000, true},
		{"50.0", 5000, true},
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},     // zero is allowed in the ledger
		{"-1", -100, true}, // as are negative corrections
		{"-3.505", -351, true},
		{"+7", 700, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("ParseCents(%q) = %d, %v; want %d", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("ParseCents(%q) expected error, got %d", tc.in, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 5000}
	b := Money{Cents: 1250}
	if got := a.Add(b).Cents; got != 6250 {
		t.Fatalf("Add = %d, want 6250", got)
	}
	if got := a.Sub(b).Cents; got != 3750 {
		t.Fatalf("Sub = %d, want 3750", got)
	}
	if got := b.Units(); got != 12.5 {
		t.Fatalf("Units = %v, want 12.5", got)
	}
}
