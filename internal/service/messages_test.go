package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/splitfair/splitfair/internal/calculator"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"no payer", calculator.ErrNoPayerSelected, "Please select who paid the expense."},
		{"no participants", calculator.ErrNoParticipants, "Please select at least one participant."},
		{"add failed", fmt.Errorf("%w: status 500", ErrAddExpense), "Failed to add expense. Please check the form."},
		{"settle failed", fmt.Errorf("%w: timeout", ErrSettle), "Failed to settle the group. Please try again."},
		{"load failed", fmt.Errorf("%w: refused", ErrLoadGroup), "Unable to load group expenses. Please try again."},
		{"settle in flight is silent", ErrSettleInFlight, ""},
		{"submit in flight is silent", ErrSubmitInFlight, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessageShareMismatchCarriesTotals(t *testing.T) {
	err := &calculator.ShareMismatchError{Total: 290, Amount: 300}
	msg := UserMessage(err)
	if !strings.Contains(msg, "Unequal split total must match the amount.") {
		t.Errorf("message %q missing the mismatch wording", msg)
	}
	if !strings.Contains(msg, "290.00") || !strings.Contains(msg, "300.00") {
		t.Errorf("message %q should report both totals", msg)
	}
}
