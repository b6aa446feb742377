package envelope

import (
	"errors"
	"fmt"
	"testing"
)

func TestConvertCadence(t *testing.T) {
	testCases := []struct {
		name    string
		amount  Money
		cadence Cadence
		period  Period
		want    Money
	}{
		{"monthly into its month", usd("1500.00"), MonthlyCadence(), MustPeriod("2025-08"), usd("1500.00")},
		{"monthly into a week", usd("1500.00"), MonthlyCadence(), MustPeriod("2025-W33"), usd("346.42")}, // 1500 / 4.33
		{"monthly into a biweek", usd("1500.00"), MonthlyCadence(), MustPeriod("BW-42"), usd("750.00")},
		{"monthly into ten custom days", usd("1500.00"), MonthlyCadence(), MustPeriod("2025-08-01..2025-08-10"), usd("500.00")}, // 1500 * 10/30
		{"weekly into a week", usd("100.00"), WeeklyCadence(), MustPeriod("2025-W33"), usd("100.00")},
		{"weekly into a biweek", usd("100.00"), WeeklyCadence(), MustPeriod("BW-42"), usd("200.00")},
		{"weekly into a 31 day month", usd("100.00"), WeeklyCadence(), MustPeriod("2025-08"), usd("442.86")}, // 100 * 31/7
		{"weekly into a 30 day month", usd("100.00"), WeeklyCadence(), MustPeriod("2025-09"), usd("428.57")}, // 100 * 30/7
		{"yearly into a month", usd("1000.00"), YearlyCadence(), MustPeriod("2025-08"), usd("83.33")},        // 1000 / 12
		{"yearly into december", usd("1000.00"), YearlyCadence(), MustPeriod("2025-12"), usd("83.37")},       // 1000 - 11 * 83.33
		{"yearly into a week", usd("1000.00"), YearlyCadence(), MustPeriod("2025-W33"), usd("19.23")},        // 1000 / 52
		{"yearly into a biweek", usd("1000.00"), YearlyCadence(), MustPeriod("BW-42"), usd("38.46")},         // 1000 / 26
		{"yearly into 73 custom days", usd("1000.00"), YearlyCadence(), MustPeriod("2025-01-01..2025-03-14"), usd("200.00")}, // 1000 * 73/365
		{"45 days into a 30 day month", usd("90.00"), EveryNDays(45), MustPeriod("2025-09"), usd("60.00")},                   // 90 * 30/45
		{"14 days into a 31 day month", usd("70.00"), EveryNDays(14), MustPeriod("2025-08"), usd("155.00")},                  // 70 * 31/14
		{"by date is not a ratio", usd("600.00"), ByDateCadence(MustParse("2025-12-01")), MustPeriod("2025-08"), Money{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConvertCadence(tc.amount, tc.cadence, tc.period); !got.Equal(tc.want) {
				t.Errorf("ConvertCadence(%s, %s, %s) = %s, want %s", tc.amount, tc.cadence, tc.period, got, tc.want)
			}
		})
	}
}

// TestYearlySuggestionsSumExactly checks that the twelve monthly
// suggestions of a yearly target add up to the yearly amount to the cent,
// December absorbing the rounding remainder.
func TestYearlySuggestionsSumExactly(t *testing.T) {
	amount := usd("999.99")
	cadence := YearlyCadence()

	var sum Money
	p := MustPeriod("2025-01")
	for range 12 {
		sum = sum.Add(ConvertCadence(amount, cadence, p))
		next, err := p.Next()
		if err != nil {
			t.Fatalf("Next(%s): %v", p, err)
		}
		p = next
	}
	if !sum.Equal(amount) {
		t.Errorf("sum of monthly suggestions = %s, want %s", sum, amount)
	}
	if got, want := ConvertCadence(amount, cadence, MustPeriod("2025-12")), usd("83.36"); !got.Equal(want) { // 999.99 - 11 * 83.33
		t.Errorf("december suggestion = %s, want %s", got, want)
	}
}

func TestSuggestedAmountByDate(t *testing.T) {
	newVacationLedger := func(t *testing.T) *Ledger {
		t.Helper()
		l := NewLedger()
		if err := l.Accounts().Add(&Account{ID: "checking", Name: "Checking", StartingDate: MustParse("2025-01-01")}); err != nil {
			t.Fatalf("Add account: %v", err)
		}
		if err := l.Categories().Add(&Category{ID: "vacation", Name: "Vacation"}); err != nil {
			t.Fatalf("Add category: %v", err)
		}
		return l
	}
	pay := func(t *testing.T, l *Ledger, on, amount string) {
		t.Helper()
		tx := &Transaction{Date: MustParse(on), Account: "checking", Category: "vacation", Amount: usd(amount).Neg()}
		if err := l.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	target := func(amount, due string) *BudgetTarget {
		return &BudgetTarget{ID: "tgt-1", Category: "vacation", Amount: usd(amount), Cadence: ByDateCadence(MustParse(due)), Active: true}
	}

	t.Run("spread over remaining periods", func(t *testing.T) {
		l := newVacationLedger(t)
		// August through December is five periods.
		got := l.SuggestedAmount(target("600.00", "2025-12-01"), august)
		if want := usd("120.00"); !got.Equal(want) {
			t.Errorf("SuggestedAmount = %s, want %s", got, want)
		}
	})

	t.Run("payments shrink the remainder", func(t *testing.T) {
		l := newVacationLedger(t)
		pay(t, l, "2025-07-15", "100.00")
		got := l.SuggestedAmount(target("600.00", "2025-12-01"), august)
		if want := usd("100.00"); !got.Equal(want) { // (600 - 100) / 5
			t.Errorf("SuggestedAmount = %s, want %s", got, want)
		}
	})

	t.Run("twelve period spread", func(t *testing.T) {
		l := newVacationLedger(t)
		pay(t, l, "2025-07-20", "500.00")
		// August 2025 through July 2026 is twelve periods.
		got := l.SuggestedAmount(target("2000.00", "2026-07-15"), august)
		if want := usd("125.00"); !got.Equal(want) { // (2000 - 500) / 12
			t.Errorf("SuggestedAmount = %s, want %s", got, want)
		}
	})

	t.Run("suggestions never rise as payments grow", func(t *testing.T) {
		l := newVacationLedger(t)
		tg := target("600.00", "2025-12-01")
		prev := l.SuggestedAmount(tg, august)
		for day := 1; day <= 7; day++ {
			pay(t, l, fmt.Sprintf("2025-07-%02d", day), "100.00")
			got := l.SuggestedAmount(tg, august)
			if got.GreaterThan(prev) {
				t.Fatalf("suggestion rose from %s to %s after another payment", prev, got)
			}
			prev = got
		}
		// Seven payments overshoot the target, the suggestion bottoms out.
		if !prev.IsZero() {
			t.Errorf("suggestion after overpaying = %s, want zero", prev)
		}
	})

	t.Run("fractions round up", func(t *testing.T) {
		l := newVacationLedger(t)
		// August through October is three periods; 1000/3 never underfunds.
		got := l.SuggestedAmount(target("1000.00", "2025-10-15"), august)
		if want := usd("333.34"); !got.Equal(want) {
			t.Errorf("SuggestedAmount = %s, want %s", got, want)
		}
	})

	t.Run("due inside the period", func(t *testing.T) {
		l := newVacationLedger(t)
		got := l.SuggestedAmount(target("450.00", "2025-08-20"), august)
		if want := usd("450.00"); !got.Equal(want) {
			t.Errorf("SuggestedAmount = %s, want %s", got, want)
		}
	})

	t.Run("past due asks for the whole residual", func(t *testing.T) {
		l := newVacationLedger(t)
		pay(t, l, "2025-06-10", "150.00")
		got := l.SuggestedAmount(target("600.00", "2025-07-10"), august)
		if want := usd("450.00"); !got.Equal(want) { // 600 - 150, due now
			t.Errorf("SuggestedAmount = %s, want %s", got, want)
		}
	})

	t.Run("fully paid asks for nothing", func(t *testing.T) {
		l := newVacationLedger(t)
		pay(t, l, "2025-07-15", "600.00")
		if got := l.SuggestedAmount(target("600.00", "2025-12-01"), august); !got.IsZero() {
			t.Errorf("SuggestedAmount = %s, want zero", got)
		}
	})

	t.Run("inactive target asks for nothing", func(t *testing.T) {
		l := newVacationLedger(t)
		tg := target("600.00", "2025-12-01")
		tg.Active = false
		if got := l.SuggestedAmount(tg, august); !got.IsZero() {
			t.Errorf("SuggestedAmount = %s, want zero", got)
		}
		if got := l.SuggestedAmount(nil, august); !got.IsZero() {
			t.Errorf("SuggestedAmount(nil) = %s, want zero", got)
		}
	})
}

func TestSetTargetReplaces(t *testing.T) {
	sys := newTestBook(t)

	first := &BudgetTarget{Category: "groceries", Amount: usd("400.00"), Cadence: MonthlyCadence()}
	if err := sys.SetTarget(first); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if first.ID == "" || !first.Active {
		t.Fatalf("minted target = %+v, want id and active", first)
	}

	second := &BudgetTarget{Category: "groceries", Amount: usd("450.00"), Cadence: MonthlyCadence()}
	if err := sys.SetTarget(second); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	l := ledgerOf(sys)
	if first.Active {
		t.Errorf("replaced target still active")
	}
	if got := l.TargetFor("groceries"); got != second {
		t.Errorf("TargetFor = %v, want the replacement", got)
	}
	// Both stay in the book, the history remains explainable.
	if got := len(l.Targets()); got != 2 {
		t.Errorf("Targets() has %d entries, want 2", got)
	}

	if err := sys.DropTarget(second.ID); err != nil {
		t.Fatalf("DropTarget: %v", err)
	}
	if got := l.TargetFor("groceries"); got != nil {
		t.Errorf("TargetFor after drop = %v, want nil", got)
	}
}

func TestSetTargetGuards(t *testing.T) {
	sys := newTestBook(t)

	if err := sys.SetTarget(&BudgetTarget{Category: "vacation", Amount: usd("100.00"), Cadence: MonthlyCadence()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetTarget on unknown category = %v, want not found", err)
	}
	if err := sys.SetTarget(&BudgetTarget{Category: "groceries", Amount: Money{}, Cadence: MonthlyCadence()}); !errors.Is(err, ErrValidation) {
		t.Errorf("SetTarget with zero amount = %v, want validation error", err)
	}
	if err := sys.SetTarget(&BudgetTarget{Category: "groceries", Amount: usd("-5.00"), Cadence: MonthlyCadence()}); !errors.Is(err, ErrValidation) {
		t.Errorf("SetTarget with negative amount = %v, want validation error", err)
	}

	// A failing replacement leaves the previous target active.
	keeper := &BudgetTarget{Category: "groceries", Amount: usd("400.00"), Cadence: MonthlyCadence()}
	if err := sys.SetTarget(keeper); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := sys.SetTarget(&BudgetTarget{Category: "groceries", Amount: Money{}, Cadence: MonthlyCadence()}); !errors.Is(err, ErrValidation) {
		t.Fatalf("SetTarget = %v, want validation error", err)
	}
	if !keeper.Active {
		t.Errorf("previous target deactivated by a failed replacement")
	}

	// The ledger itself refuses a second explicit active target.
	l := ledgerOf(sys)
	err := l.SetTarget(&BudgetTarget{ID: "tgt-explicit", Category: "groceries", Amount: usd("10.00"), Cadence: MonthlyCadence(), Active: true})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("SetTarget with a second active = %v, want conflict", err)
	}

	if err := sys.DropTarget("tgt-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DropTarget unknown = %v, want not found", err)
	}
}

func TestAutoFill(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(1), "2000.00")
	if err := sys.SetTarget(&BudgetTarget{Category: "rent", Amount: usd("1500.00"), Cadence: MonthlyCadence()}); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}

	alloc, err := sys.AutoFill("rent", august, false)
	if err != nil {
		t.Fatalf("AutoFill: %v", err)
	}
	if !alloc.Budgeted.Equal(usd("1500.00")) {
		t.Errorf("Budgeted = %s, want $1,500.00", alloc.Budgeted)
	}
	if got, want := sys.AvailableToBudget(august), usd("500.00"); !got.Equal(want) {
		t.Errorf("AvailableToBudget = %s, want %s", got, want)
	}

	if _, err := sys.AutoFill("groceries", august, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("AutoFill without target = %v, want not found", err)
	}
}

func TestAutoFillAll(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(1), "2000.00")
	if err := sys.SetTarget(&BudgetTarget{Category: "groceries", Amount: usd("600.00"), Cadence: MonthlyCadence()}); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := sys.SetTarget(&BudgetTarget{Category: "rent", Amount: usd("1500.00"), Cadence: MonthlyCadence()}); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}

	// Targets fill in category order: groceries lands, rent would leave
	// -100 available and is refused, without undoing groceries.
	allocs, err := sys.AutoFillAll(august, false)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("AutoFillAll = %v, want a joined validation error", err)
	}
	if len(allocs) != 1 || allocs[0].Category != "groceries" {
		t.Fatalf("AutoFillAll filled %v, want just groceries", allocs)
	}

	// The override lets the whole set through.
	allocs, err = sys.AutoFillAll(august, true)
	if err != nil {
		t.Fatalf("AutoFillAll with override: %v", err)
	}
	if len(allocs) != 2 {
		t.Fatalf("AutoFillAll filled %d categories, want 2", len(allocs))
	}
	if got, want := sys.AvailableToBudget(august), usd("-100.00"); !got.Equal(want) { // 2000 - 600 - 1500
		t.Errorf("AvailableToBudget = %s, want %s", got, want)
	}
}

func TestTargetProgress(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(1), "2000.00")
	tg := &BudgetTarget{Category: "groceries", Amount: usd("600.00"), Cadence: MonthlyCadence()}
	if err := sys.SetTarget(tg); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if _, err := sys.Assign("groceries", august, usd("100.00"), false); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	l := ledgerOf(sys)

	// Nothing paid yet: budgeted money is the best estimate.
	p := l.TargetProgress(tg, september)
	if !p.Paid.IsZero() || !p.Amount.Equal(usd("100.00")) {
		t.Errorf("before payment: paid %s amount %s, want zero and $100.00", p.Paid, p.Amount)
	}

	spend(t, sys, aug(25), "groceries", "60.00")
	p = l.TargetProgress(tg, september)
	if !p.Paid.Equal(usd("60.00")) {
		t.Errorf("Paid = %s, want $60.00", p.Paid)
	}
	// Payments take over as the authoritative figure.
	if !p.Amount.Equal(usd("60.00")) {
		t.Errorf("Amount = %s, want $60.00", p.Amount)
	}
	// The preview adds budgeted-but-unpaid money without double counting.
	if !p.Preview.Equal(usd("100.00")) { // 60 paid + 40 still budgeted
		t.Errorf("Preview = %s, want $100.00", p.Preview)
	}
	if want := Percent(10); !p.Pct.Equal(want) { // 60 / 600
		t.Errorf("Pct = %s, want %s", p.Pct, want)
	}

	// Overpaying pushes the preview past the budgeted figure.
	spend(t, sys, aug(28), "groceries", "90.00")
	p = l.TargetProgress(tg, september)
	if !p.Preview.Equal(usd("150.00")) { // paid 150, unpaid clamps at zero
		t.Errorf("Preview = %s, want $150.00", p.Preview)
	}
}
