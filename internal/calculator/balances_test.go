package calculator

import (
	"math"
	"testing"

	"github.com/splitfair/splitfair/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		entry      models.BalanceEntry
		wantLabel  string
		wantAmount float64
		wantName   string
	}{
		{
			name:       "positive balance owes",
			entry:      models.BalanceEntry{UserID: "u1", Name: "Alice", Balance: 75.5},
			wantLabel:  LabelOwes,
			wantAmount: 75.5,
			wantName:   "Alice",
		},
		{
			name:       "negative balance gets back its magnitude",
			entry:      models.BalanceEntry{UserID: "u2", Name: "Bob", Balance: -150},
			wantLabel:  LabelGetsBack,
			wantAmount: 150,
			wantName:   "Bob",
		},
		{
			name:       "zero balance gets back zero",
			entry:      models.BalanceEntry{UserID: "u3", Name: "Carol", Balance: 0},
			wantLabel:  LabelGetsBack,
			wantAmount: 0,
			wantName:   "Carol",
		},
		{
			name:       "missing name falls back to identifier",
			entry:      models.BalanceEntry{UserID: "u4", Balance: 10},
			wantLabel:  LabelOwes,
			wantAmount: 10,
			wantName:   "u4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := Classify([]models.BalanceEntry{tt.entry})
			if len(positions) != 1 {
				t.Fatalf("expected 1 position, got %d", len(positions))
			}
			pos := positions[0]
			if pos.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", pos.Label, tt.wantLabel)
			}
			if pos.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", pos.Amount, tt.wantAmount)
			}
			if pos.Name != tt.wantName {
				t.Errorf("name = %q, want %q", pos.Name, tt.wantName)
			}
		})
	}
}

// Re-signing the displayed magnitudes by their labels must recover a
// zero-sum ledger from a zero-sum snapshot.
func TestClassifyConservation(t *testing.T) {
	snapshot := []models.BalanceEntry{
		{UserID: "alice@example.com", Balance: 120.40},
		{UserID: "bob@example.com", Balance: 29.60},
		{UserID: "carol@example.com", Balance: -150},
	}

	var sum float64
	for _, pos := range Classify(snapshot) {
		if pos.Label == LabelOwes {
			sum += pos.Amount
		} else {
			sum -= pos.Amount
		}
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("re-signed sum = %v, want 0", sum)
	}
}

func TestImbalance(t *testing.T) {
	balanced := []models.BalanceEntry{
		{Balance: 100},
		{Balance: -60},
		{Balance: -40},
	}
	if imb := Imbalance(balanced); imb > 1e-9 {
		t.Errorf("Imbalance(balanced) = %v, want 0", imb)
	}

	skewed := []models.BalanceEntry{{Balance: 100}, {Balance: -60}}
	if imb := Imbalance(skewed); math.Abs(imb-40) > 1e-9 {
		t.Errorf("Imbalance(skewed) = %v, want 40", imb)
	}
}
