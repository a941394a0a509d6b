package api

import (
	"strings"

	"github.com/splitfair/splitfair/internal/calculator"
	"github.com/splitfair/splitfair/internal/models"
)

// BuildExpensePayload normalizes an accepted draft into the creation
// payload for POST /expense. It trims the title and coerces the amount;
// it performs no validation of its own and must only be called after
// calculator.ValidateDraft has returned nil.
//
// Equal splits carry participants as a flat email list and no explicit
// shares — the division is the store's job. Unequal splits carry one
// {userId, share} entry per participant, with 0 for any participant
// without an entered value.
func BuildExpensePayload(d calculator.Draft) (models.ExpenseRequest, error) {
	amount, err := calculator.ParseAmount(d.Amount)
	if err != nil {
		return models.ExpenseRequest{}, err
	}

	req := models.ExpenseRequest{
		GroupID:   d.GroupID,
		Title:     strings.TrimSpace(d.Title),
		Amount:    amount,
		PaidBy:    d.PaidBy,
		SplitType: models.SplitEqual,
	}

	if d.SplitType == models.SplitUnequal {
		shares, err := calculator.BuildShares(d)
		if err != nil {
			return models.ExpenseRequest{}, err
		}
		req.SplitType = models.SplitUnequal
		req.Participants = shares
		return req, nil
	}

	req.Participants = append([]string(nil), d.Participants...)
	return req, nil
}
