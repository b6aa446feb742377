package envelope

import "fmt"

// Percent is a display ratio where 100 means 100%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.0f%%", p)
}

// Clamp bounds the percent to [0, 100] for display purposes.
func (p Percent) Clamp() Percent {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Ratio returns the percent of the part over the whole. A zero whole is 0%
// when the part is zero too, else 100%.
func Ratio(part, whole Money) Percent {
	if whole.IsZero() {
		if part.IsZero() {
			return 0
		}
		return 100
	}
	return Percent(100 * float64(part.Cents()) / float64(whole.Cents()))
}
