package models

// BalanceEntry is one member's net position in a group summary.
// Positive balance = this member owes money; negative = this member is
// owed money. The sum over a group's entries is zero up to rounding,
// and exactly zero everywhere after a settlement.
type BalanceEntry struct {
	UserID  string  `json:"userId"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// DisplayName returns the entry's name, falling back to the user
// identifier when the store supplied none.
func (e BalanceEntry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.UserID
}
