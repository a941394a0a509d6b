// Package calculator implements the pure split and balance computations:
// draft state transitions, split validation for equal and unequal modes,
// the equal-share preview, and balance classification. Nothing in this
// package performs I/O.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/splitfair/splitfair/internal/models"
)

// ShareTolerance is the absolute tolerance when comparing an unequal
// split's share total against the expense amount. It absorbs two-decimal
// input rounding.
const ShareTolerance = 0.01

var (
	// ErrNoPayerSelected means the draft has no payer. Checked before any
	// other validation, regardless of split type.
	ErrNoPayerSelected = errors.New("no payer selected")

	// ErrNoParticipants means an equal split has an empty participant set.
	ErrNoParticipants = errors.New("no participants selected")

	// ErrInvalidAmount means the amount input is missing, unparseable or
	// not positive.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrInvalidShare means a share input is unparseable or negative.
	ErrInvalidShare = errors.New("shares must be non-negative numbers")
)

// ShareMismatchError reports an unequal split whose share total differs
// from the expense amount by more than ShareTolerance. It carries both
// values so callers can report the mismatch.
type ShareMismatchError struct {
	Total  float64
	Amount float64
}

func (e *ShareMismatchError) Error() string {
	return fmt.Sprintf("share total %.2f does not match amount %.2f", e.Total, e.Amount)
}

// ValidateDraft checks a draft against the split rules without side
// effects. Validation order: payer first, then amount, then the
// mode-specific rules. A nil return means BuildShares and payload
// building will succeed.
func ValidateDraft(d Draft) error {
	if d.PaidBy == "" {
		return ErrNoPayerSelected
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return err
	}

	switch d.SplitType {
	case models.SplitUnequal:
		total, err := shareTotal(d)
		if err != nil {
			return err
		}
		if math.Abs(total-amount) > ShareTolerance {
			return &ShareMismatchError{Total: total, Amount: amount}
		}
	default:
		if len(d.Participants) == 0 {
			return ErrNoParticipants
		}
	}
	return nil
}

// BuildShares materializes the explicit per-participant shares of an
// unequal split, defaulting to 0 for any participant without an entered
// value. Only meaningful after ValidateDraft has accepted the draft.
func BuildShares(d Draft) ([]models.ShareInput, error) {
	shares := make([]models.ShareInput, len(d.Participants))
	for i, p := range d.Participants {
		v, err := parseShare(d.Shares[p])
		if err != nil {
			return nil, err
		}
		shares[i] = models.ShareInput{UserID: p, Share: v}
	}
	return shares, nil
}

// EqualShares previews the equal division the store will perform: each
// participant's share is the amount divided by the participant count,
// rounded down to whole cents, with the leftover cents assigned to the
// payer. The shares always sum exactly to the amount.
func EqualShares(amount float64, participants []string, payer string) map[string]float64 {
	if len(participants) == 0 {
		return nil
	}
	totalCents := int64(math.Round(amount * 100))
	perHead := totalCents / int64(len(participants))
	remainder := totalCents - perHead*int64(len(participants))

	shares := make(map[string]float64, len(participants))
	for _, p := range participants {
		shares[p] = float64(perHead) / 100
	}
	if _, ok := shares[payer]; ok && remainder > 0 {
		shares[payer] = float64(perHead+remainder) / 100
	}
	return shares
}

// ParseAmount parses a raw amount input. Rejects empty, unparseable and
// non-positive values.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// shareTotal sums the entered shares over the draft's participants,
// treating missing entries as 0.
func shareTotal(d Draft) (float64, error) {
	var total float64
	for _, p := range d.Participants {
		v, err := parseShare(d.Shares[p])
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// parseShare parses one raw share input. Empty means 0; negative and
// unparseable values are rejected.
func parseShare(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidShare
	}
	return v, nil
}
