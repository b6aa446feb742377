package envelope

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CadenceKind enumerates the recurrence rules a budget target can follow.
type CadenceKind int

const (
	CadenceWeekly CadenceKind = iota
	CadenceMonthly
	CadenceYearly
	// CadenceEveryNDays recurs every fixed number of days.
	CadenceEveryNDays
	// CadenceByDate is a one-shot goal due on a date; its suggestion spreads
	// the remainder over the periods left, so it is not a simple ratio.
	CadenceByDate
)

// Cadence is the closed recurrence rule of a budget target. The zero value
// is the weekly cadence.
type Cadence struct {
	kind CadenceKind
	days int  // for CadenceEveryNDays
	date Date // for CadenceByDate
}

func WeeklyCadence() Cadence        { return Cadence{kind: CadenceWeekly} }
func MonthlyCadence() Cadence       { return Cadence{kind: CadenceMonthly} }
func YearlyCadence() Cadence        { return Cadence{kind: CadenceYearly} }
func EveryNDays(days int) Cadence   { return Cadence{kind: CadenceEveryNDays, days: days} }
func ByDateCadence(on Date) Cadence { return Cadence{kind: CadenceByDate, date: on} }

// Kind returns the cadence's recurrence rule.
func (c Cadence) Kind() CadenceKind { return c.kind }

// Days returns the interval of an every-n-days cadence, zero otherwise.
func (c Cadence) Days() int { return c.days }

// Due returns the due date of a by-date cadence, zero otherwise.
func (c Cadence) Due() Date { return c.date }

// String returns the canonical form: "weekly", "monthly", "yearly", "45d"
// or "by 2025-12-24".
func (c Cadence) String() string {
	switch c.kind {
	case CadenceWeekly:
		return "weekly"
	case CadenceMonthly:
		return "monthly"
	case CadenceYearly:
		return "yearly"
	case CadenceEveryNDays:
		return fmt.Sprintf("%dd", c.days)
	case CadenceByDate:
		return fmt.Sprintf("by %s", c.date)
	default:
		return "unknown"
	}
}

var everyNDaysRE = regexp.MustCompile(`^(\d+)\s*d(?:ays?)?$`)

// ParseCadence parses a cadence: "weekly", "monthly", "yearly", "45d",
// "45 days", "by 2025-12-24" or a bare date.
func ParseCadence(str string) (Cadence, error) {
	s := strings.ToLower(strings.TrimSpace(str))
	switch s {
	case "weekly", "week":
		return WeeklyCadence(), nil
	case "monthly", "month":
		return MonthlyCadence(), nil
	case "yearly", "year":
		return YearlyCadence(), nil
	}
	if m := everyNDaysRE.FindStringSubmatch(s); m != nil {
		days, _ := strconv.Atoi(m[1])
		if days < 1 {
			return Cadence{}, Validationf("invalid cadence %q: interval must be at least 1 day", str)
		}
		return EveryNDays(days), nil
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "by"))
	if on, err := ParseDate(s); err == nil {
		return ByDateCadence(on), nil
	}
	return Cadence{}, Validationf("invalid cadence %q: want weekly, monthly, yearly, 45d or by 2025-12-24", str)
}

func (c Cadence) MarshalJSON() ([]byte, error) { return jsonString(c.String()) }

func (c *Cadence) UnmarshalJSON(b []byte) error {
	s, err := jsonParseString(b)
	if err != nil {
		return err
	}
	parsed, err := ParseCadence(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// BudgetTarget is a recurring funding rule for a category. At most one
// active target exists per category; replaced targets are deactivated, not
// deleted, so past suggestions stay explainable.
type BudgetTarget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   Money   `json:"amount"`
	Cadence  Cadence `json:"cadence"`
	Notes    string  `json:"notes,omitempty"`
	Active   bool    `json:"active"`
	Created  Date    `json:"created,omitzero"`
}

// Validate reports whether the target is well formed.
func (t *BudgetTarget) Validate() error {
	if t.ID == "" {
		return Validationf("target has no id")
	}
	if t.Category == "" {
		return Validationf("target %s has no category", t.ID)
	}
	if t.Amount.IsNegative() {
		return Validationf("target %s: amount cannot be negative", t.ID)
	}
	if t.Amount.IsZero() {
		return Validationf("target %s: amount cannot be zero", t.ID)
	}
	if t.Cadence.Kind() == CadenceEveryNDays && t.Cadence.Days() < 1 {
		return Validationf("target %s: interval must be at least 1 day", t.ID)
	}
	return nil
}

// ConvertCadence scales a target amount into one period's worth for the
// ratio cadences. Divisions run over decimals and re-quantize half-up on
// the final cent; the only exact integer shortcuts are the identities and
// doublings. ByDate is not a ratio and is handled by the target engine.
func ConvertCadence(amount Money, c Cadence, p Period) Money {
	switch c.kind {
	case CadenceWeekly:
		switch p.Kind() {
		case Weekly:
			return amount
		case Biweekly:
			return amount.Add(amount)
		default:
			// weeks in the period
			weeks := decimal.NewFromInt(int64(p.Days())).Div(decimal.NewFromInt(7))
			return quantize(amount.Decimal().Mul(weeks))
		}
	case CadenceMonthly:
		switch p.Kind() {
		case Monthly:
			return amount
		case Weekly:
			return quantize(amount.Decimal().Div(decimal.NewFromFloat(4.33)))
		case Biweekly:
			return quantize(amount.Decimal().Div(decimal.NewFromInt(2)))
		default:
			days := decimal.NewFromInt(int64(p.Days()))
			return quantize(amount.Decimal().Mul(days).Div(decimal.NewFromInt(30)))
		}
	case CadenceYearly:
		switch p.Kind() {
		case Monthly:
			twelfth := quantize(amount.Decimal().Div(decimal.NewFromInt(12)))
			if p.Start().Month() == 12 {
				// December absorbs the rounding remainder so the twelve
				// monthly suggestions sum back to the yearly amount exactly.
				return amount.Sub(Cents(11 * twelfth.Cents()))
			}
			return twelfth
		case Weekly:
			return quantize(amount.Decimal().Div(decimal.NewFromInt(52)))
		case Biweekly:
			return quantize(amount.Decimal().Div(decimal.NewFromInt(26)))
		default:
			days := decimal.NewFromInt(int64(p.Days()))
			return quantize(amount.Decimal().Mul(days).Div(decimal.NewFromInt(365)))
		}
	case CadenceEveryNDays:
		intervals := decimal.NewFromInt(int64(p.Days())).Div(decimal.NewFromInt(int64(c.days)))
		return quantize(amount.Decimal().Mul(intervals))
	default:
		// CadenceByDate needs paid history, see the target engine.
		return Money{}
	}
}
