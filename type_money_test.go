package envelope

import "testing"

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in   string
		want int64 // cents
	}{
		{"10", 1000},
		{"10.5", 1050},
		{"10.50", 1050},
		{"$10.50", 1050},
		{"-10.50", -1050},
		{"-$10.50", -1050},
		{"+10.50", 1050},
		{"($10.50)", -1050},
		{"(10.50)", -1050},
		{"1,234.56", 123456},
		{".99", 99},
		{"0", 0},
		{" 25.00 ", 2500},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMoney(tc.in)
			if err != nil {
				t.Fatalf("ParseMoney(%q) error = %v", tc.in, err)
			}
			if got.Cents() != tc.want {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tc.in, got.Cents(), tc.want)
			}
		})
	}
}

func TestParseMoneyRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"  ",
		"abc",
		"10.",
		"10.123",
		"10.5.0",
		"10 50",
		"$",
		"--10",
		"92233720368547758080",
	} {
		if _, err := ParseMoney(in); err == nil {
			t.Errorf("ParseMoney(%q) accepted a bad amount", in)
		}
	}
}

func TestFromMajorMinor(t *testing.T) {
	testCases := []struct {
		name     string
		units    int64
		subunits int64
		want     int64
	}{
		{"simple", 10, 50, 1050},
		{"negative units carry the sign", -10, 50, -1050},
		{"subunits carry past 99", 10, 150, 1150},
		{"negative with carry", -10, 150, -1150},
		{"zero units negative stays positive", 0, 75, 75},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromMajorMinor(tc.units, tc.subunits)
			if got.Cents() != tc.want {
				t.Errorf("FromMajorMinor(%d, %d) = %d cents, want %d", tc.units, tc.subunits, got.Cents(), tc.want)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, b := usd("10.50"), usd("4.25")
	if got := a.Add(b); !got.Equal(usd("14.75")) {
		t.Errorf("Add = %s", got)
	}
	if got := a.Sub(b); !got.Equal(usd("6.25")) {
		t.Errorf("Sub = %s", got)
	}
	if got := b.Sub(a); !got.Equal(usd("-6.25")) {
		t.Errorf("Sub negative = %s", got)
	}
	if got := usd("-3.10").Abs(); !got.Equal(usd("3.10")) {
		t.Errorf("Abs = %s", got)
	}
	if got := usd("3.10").Neg(); !got.Equal(usd("-3.10")) {
		t.Errorf("Neg = %s", got)
	}
}

func TestMoneySign(t *testing.T) {
	if usd("-1.00").Sign() != -1 || usd("1.00").Sign() != 1 || usd("0").Sign() != 0 {
		t.Error("Sign is off")
	}
	if usd("1.00").Cmp(usd("2.00")) != -1 || usd("2.00").Cmp(usd("1.00")) != 1 || usd("1.00").Cmp(usd("1.00")) != 0 {
		t.Error("Cmp is off")
	}
	if !usd("1.00").LessThan(usd("1.01")) || usd("1.01").LessThan(usd("1.01")) {
		t.Error("LessThan is off")
	}
	if !usd("1.01").GreaterThanOrEqual(usd("1.01")) {
		t.Error("GreaterThanOrEqual is off")
	}
}

func TestMoneyString(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"1234.56", "$1,234.56"},
		{"-10.50", "-$10.50"},
		{"0", "$0.00"},
	}
	for _, tc := range testCases {
		if got := usd(tc.in).String(); got != tc.want {
			t.Errorf("String(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignedString(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"10.50", "+$10.50"},
		{"-10.50", "-$10.50"},
		{"0", "-"},
	}
	for _, tc := range testCases {
		if got := usd(tc.in).SignedString(); got != tc.want {
			t.Errorf("SignedString(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	m := usd("123.45")
	if got := m.Decimal().StringFixed(2); got != "123.45" {
		t.Errorf("Decimal() = %s", got)
	}
}
