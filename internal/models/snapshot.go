package models

import "time"

// Snapshot is the last successfully fetched state of one group, persisted
// locally so the view can degrade to cached data when the store is
// unreachable. The store remains the source of truth; a snapshot is only
// ever displayed marked as stale.
type Snapshot struct {
	GroupID   string
	Group     *Group
	Expenses  []Expense
	Summary   []BalanceEntry
	FetchedAt time.Time
}
