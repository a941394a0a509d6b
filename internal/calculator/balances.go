package calculator

import (
	"math"

	"github.com/splitfair/splitfair/internal/models"
)

// Position labels for a classified balance entry.
const (
	LabelOwes     = "Owes"
	LabelGetsBack = "Gets back"
)

// MemberPosition is the display classification of one balance entry:
// a resolved name, a direction label and a non-negative magnitude.
type MemberPosition struct {
	UserID string
	Name   string
	Label  string
	Amount float64
}

// Classify converts a balance snapshot into display positions.
//
// Positive balance = net debtor ("Owes"), negative = net creditor
// ("Gets back"); an exact zero is classified as "Gets back" with
// magnitude 0. Names fall back to the member identifier. Classify is
// stateless and never mutates the snapshot — the store remains the sole
// source of truth for current balances.
func Classify(entries []models.BalanceEntry) []MemberPosition {
	positions := make([]MemberPosition, len(entries))
	for i, e := range entries {
		label := LabelGetsBack
		if e.Balance > 0 {
			label = LabelOwes
		}
		positions[i] = MemberPosition{
			UserID: e.UserID,
			Name:   e.DisplayName(),
			Label:  label,
			Amount: math.Abs(e.Balance),
		}
	}
	return positions
}

// Imbalance returns the absolute sum of a snapshot's balances. A group's
// ledger conserves money, so anything above rounding noise indicates an
// inconsistent snapshot worth logging.
func Imbalance(entries []models.BalanceEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Balance
	}
	return math.Abs(sum)
}
