package service

import (
	"errors"
	"fmt"

	"github.com/splitfair/splitfair/internal/calculator"
)

// UserMessage maps an operation error to the single human-readable
// message shown in the view. Validation errors keep their specific
// wording; transport and store failures degrade to a generic message per
// operation. Exactly one message is displayed at a time, cleared at the
// start of the next attempt.
func UserMessage(err error) string {
	var mismatch *calculator.ShareMismatchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, calculator.ErrNoPayerSelected):
		return "Please select who paid the expense."
	case errors.Is(err, calculator.ErrNoParticipants):
		return "Please select at least one participant."
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Unequal split total must match the amount. (total %.2f, amount %.2f)",
			mismatch.Total, mismatch.Amount)
	case errors.Is(err, calculator.ErrInvalidAmount):
		return "Please enter a valid positive amount."
	case errors.Is(err, calculator.ErrInvalidShare):
		return "Please enter valid non-negative shares."
	case errors.Is(err, ErrAddExpense):
		return "Failed to add expense. Please check the form."
	case errors.Is(err, ErrSettle):
		return "Failed to settle the group. Please try again."
	case errors.Is(err, ErrLoadGroup):
		return "Unable to load group expenses. Please try again."
	case errors.Is(err, ErrSettleInFlight), errors.Is(err, ErrSubmitInFlight):
		// Duplicate invocations are suppressed silently; the triggering
		// control is disabled while a request is in flight.
		return ""
	default:
		return "Something went wrong. Please try again."
	}
}
