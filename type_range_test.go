package envelope

import (
	"slices"
	"testing"
	"time"
)

func TestRangeContains(t *testing.T) {
	r := NewRange(aug(10), aug(20))
	testCases := []struct {
		name string
		on   Date
		want bool
	}{
		{"lower boundary", aug(10), true},
		{"upper boundary", aug(20), true},
		{"inside", aug(15), true},
		{"just before", aug(9), false},
		{"just after", aug(21), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.on); got != tc.want {
				t.Errorf("Contains(%s) = %t, want %t", tc.on, got, tc.want)
			}
		})
	}

	// Reversed boundaries are swapped by the constructor.
	swapped := NewRange(aug(20), aug(10))
	if swapped.From != aug(10) || swapped.To != aug(20) {
		t.Errorf("NewRange swapped = %s", swapped)
	}
	if swapped.String() != "2025-08-10..2025-08-20" {
		t.Errorf("String() = %q", swapped.String())
	}
}

func TestRangeDays(t *testing.T) {
	got := slices.Collect(NewRange(aug(30), sep(2)).Days())
	want := []Date{aug(30), aug(31), sep(1), sep(2)}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}

	single := slices.Collect(NewRange(aug(5), aug(5)).Days())
	if len(single) != 1 || single[0] != aug(5) {
		t.Errorf("single day range yields %v", single)
	}
}

func TestRangePeriods(t *testing.T) {
	testCases := []struct {
		name string
		r    Range
		kind PeriodKind
		want []string
	}{
		{
			name: "weekly tiling over two weeks",
			r:    NewRange(aug(13), aug(20)), // Wednesday to Wednesday
			kind: Weekly,
			want: []string{"2025-W33", "2025-W34"},
		},
		{
			name: "monthly tiling over parts of three months",
			r:    NewRange(NewDate(2025, time.June, 15), aug(10)),
			kind: Monthly,
			want: []string{"2025-06", "2025-07", "2025-08"},
		},
		{
			name: "biweekly tiling",
			r:    NewRange(aug(1), aug(20)),
			kind: Biweekly,
			want: []string{"BW-41", "BW-42"},
		},
		{
			name: "range within one period",
			r:    NewRange(aug(5), aug(6)),
			kind: Monthly,
			want: []string{"2025-08"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for p := range tc.r.Periods(tc.kind) {
				got = append(got, p.String())
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("Periods(%s) = %v, want %v", tc.kind, got, tc.want)
			}
		})
	}
}
