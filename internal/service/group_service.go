// Package service coordinates the store calls behind a consistent group
// view: the ordered initial load, expense submission, and settlement.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/splitfair/splitfair/internal/api"
	"github.com/splitfair/splitfair/internal/calculator"
	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/storage"
)

var (
	// ErrLoadGroup is the single user-facing failure for the group load;
	// the underlying cause is logged, not surfaced.
	ErrLoadGroup = errors.New("failed to load group expenses")

	// ErrAddExpense is the user-facing failure for expense submission.
	ErrAddExpense = errors.New("failed to add expense")

	// ErrSettle is the user-facing failure for settlement. No retry is
	// attempted.
	ErrSettle = errors.New("failed to settle")

	// ErrSettleInFlight means a settlement request is already
	// outstanding; the duplicate invocation sent nothing.
	ErrSettleInFlight = errors.New("settlement already in progress")

	// ErrSubmitInFlight means an expense submission is already
	// outstanding.
	ErrSubmitInFlight = errors.New("expense submission already in progress")
)

// ExpenseStore is the subset of the store client the service depends on.
type ExpenseStore interface {
	MyGroups(ctx context.Context) ([]models.Group, error)
	GroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error)
	GroupSummary(ctx context.Context, groupID string) ([]models.BalanceEntry, error)
	CreateExpense(ctx context.Context, req models.ExpenseRequest) error
	SettleGroup(ctx context.Context, groupID string) error
}

// GroupService drives the group view lifecycle. The submission and
// settlement guards ensure at most one in-flight request of each kind;
// duplicate invocations are suppressed without touching the store.
type GroupService struct {
	store ExpenseStore
	cache storage.Store // optional; nil disables snapshot caching

	submitting atomic.Bool
	settling   atomic.Bool
}

// NewGroupService creates a GroupService. cache may be nil.
func NewGroupService(store ExpenseStore, cache storage.Store) *GroupService {
	return &GroupService{store: store, cache: cache}
}

// Load fetches one consistent view of the group: membership, expenses,
// then summary, in that order. All three reads must succeed; a partial
// view is never returned. On success the snapshot is written to the
// cache (best effort).
func (s *GroupService) Load(ctx context.Context, groupID string) (*GroupView, error) {
	groups, err := s.store.MyGroups(ctx)
	if err != nil {
		slog.Error("Load: my-groups fetch failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLoadGroup, err)
	}
	var group *models.Group
	for i := range groups {
		if groups[i].ID == groupID {
			group = &groups[i]
			break
		}
	}

	expenses, err := s.store.GroupExpenses(ctx, groupID)
	if err != nil {
		slog.Error("Load: expenses fetch failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLoadGroup, err)
	}

	summary, err := s.store.GroupSummary(ctx, groupID)
	if err != nil {
		slog.Error("Load: summary fetch failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLoadGroup, err)
	}

	if imb := calculator.Imbalance(summary); imb > calculator.ShareTolerance {
		slog.Warn("Load: summary does not sum to zero", "group_id", groupID, "imbalance", imb)
	}

	view := &GroupView{
		Group:     group,
		Expenses:  expenses,
		Summary:   summary,
		Names:     buildNameIndex(expenses, summary),
		FetchedAt: time.Now(),
	}

	if s.cache != nil {
		snap := &models.Snapshot{
			GroupID:   groupID,
			Group:     group,
			Expenses:  expenses,
			Summary:   summary,
			FetchedAt: view.FetchedAt,
		}
		if err := s.cache.SaveSnapshot(ctx, snap); err != nil {
			slog.Warn("Load: snapshot cache write failed", "group_id", groupID, "error", err)
		}
	}

	slog.Debug("Load: view fetched",
		"group_id", groupID,
		"expenses", len(expenses),
		"summary_entries", len(summary),
	)
	return view, nil
}

// LoadCached returns the last cached view for the group, marked stale.
// Returns storage.ErrNotFound (wrapped) when nothing has been cached.
func (s *GroupService) LoadCached(ctx context.Context, groupID string) (*GroupView, error) {
	if s.cache == nil {
		return nil, storage.ErrNotFound
	}
	snap, err := s.cache.GetSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &GroupView{
		Group:     snap.Group,
		Expenses:  snap.Expenses,
		Summary:   snap.Summary,
		Names:     buildNameIndex(snap.Expenses, snap.Summary),
		FetchedAt: snap.FetchedAt,
		Stale:     true,
	}, nil
}

// AddExpense validates the draft, submits it, and returns the refetched
// view. Validation failures surface before any store call, with the
// draft left intact for correction. At most one submission is in flight
// at a time.
func (s *GroupService) AddExpense(ctx context.Context, d calculator.Draft) (*GroupView, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	if err := calculator.ValidateDraft(d); err != nil {
		return nil, err
	}
	payload, err := api.BuildExpensePayload(d)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, payload); err != nil {
		slog.Error("AddExpense: store rejected expense",
			"group_id", d.GroupID,
			"split_type", d.SplitType,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrAddExpense, err)
	}

	slog.Info("AddExpense: expense created",
		"group_id", d.GroupID,
		"split_type", d.SplitType,
		"participants", len(d.Participants),
	)
	return s.Load(ctx, d.GroupID)
}

// Settle asks the store to zero the group's balances, then refetches the
// full view so callers observe the cleared ledger. Exactly one settle
// request is sent per accepted invocation; a call while another is in
// flight returns ErrSettleInFlight without touching the store. On
// failure the coordinator returns to idle with no retry.
func (s *GroupService) Settle(ctx context.Context, groupID string) (*GroupView, error) {
	if !s.settling.CompareAndSwap(false, true) {
		return nil, ErrSettleInFlight
	}
	defer s.settling.Store(false)

	if err := s.store.SettleGroup(ctx, groupID); err != nil {
		slog.Error("Settle: settle request failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSettle, err)
	}

	slog.Info("Settle: group settled", "group_id", groupID)
	return s.Load(ctx, groupID)
}
