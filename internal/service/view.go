package service

import (
	"time"

	"github.com/splitfair/splitfair/internal/models"
)

// GroupView is one consistent snapshot of a group: membership, expenses
// and balance summary fetched in that order from the store. A view built
// from a mix of reads against different group identifiers is never
// constructed.
type GroupView struct {
	// Group is the active group, or nil when it is not among the
	// caller's groups.
	Group *models.Group

	Expenses []models.Expense
	Summary  []models.BalanceEntry

	// Names resolves member emails to display names with fallback.
	Names NameIndex

	// FetchedAt is when the snapshot was read from the store.
	FetchedAt time.Time

	// Stale marks a view served from the local cache instead of the
	// store.
	Stale bool
}

// NameIndex maps member emails to display names. Resolution never
// returns an absent value: unknown or empty names fall back to the email
// itself.
type NameIndex map[string]string

// Resolve returns the display name for an email, or the email itself.
func (n NameIndex) Resolve(email string) string {
	if name, ok := n[email]; ok && name != "" {
		return name
	}
	return email
}

// buildNameIndex collects every email→name pair observable in the
// snapshot: expense payers, expense participants, and summary entries.
func buildNameIndex(expenses []models.Expense, summary []models.BalanceEntry) NameIndex {
	idx := make(NameIndex)
	for _, e := range expenses {
		if e.PaidBy.Email != "" {
			idx[e.PaidBy.Email] = e.PaidBy.DisplayName()
		}
		for _, p := range e.Participants {
			if p.UserID.Email != "" {
				idx[p.UserID.Email] = p.UserID.DisplayName()
			}
		}
	}
	for _, entry := range summary {
		if entry.Email != "" {
			name := entry.Name
			if name == "" {
				name = entry.Email
			}
			idx[entry.Email] = name
		}
	}
	return idx
}
