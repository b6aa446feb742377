package envelope

// CategoryAllocation is the stored budget decision for one category in one
// period: how much was assigned, and what rolled in from the previous
// period. Activity and available are always derived from transactions,
// never stored.
type CategoryAllocation struct {
	Category    string `json:"category"`
	Period      Period `json:"period"`
	Budgeted    Money  `json:"budgeted"`
	CarryoverIn Money  `json:"carryover,omitzero"`
	Notes       string `json:"notes,omitempty"`
}

// AllocationKey uniquely identifies an allocation record.
type AllocationKey struct {
	Category string
	Period   Period
}

// Key returns the allocation's unique key.
func (a *CategoryAllocation) Key() AllocationKey {
	return AllocationKey{Category: a.Category, Period: a.Period}
}

// Available derives the spendable balance given the period's activity:
// carryover plus budgeted plus activity, activity already signed negative
// for outflows. A negative result means overspent, which is a reportable
// state, not an error.
func (a *CategoryAllocation) Available(activity Money) Money {
	return a.CarryoverIn.Add(a.Budgeted).Add(activity)
}

// Validate reports whether the allocation is well formed.
func (a *CategoryAllocation) Validate() error {
	if a.Category == "" {
		return Validationf("allocation has no category")
	}
	if a.Period.IsZero() {
		return Validationf("allocation for %s has no period", a.Category)
	}
	return nil
}
