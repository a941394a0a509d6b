package api

import (
	"encoding/json"
	"testing"

	"github.com/splitfair/splitfair/internal/calculator"
	"github.com/splitfair/splitfair/internal/models"
)

// The serialized payloads are a byte-level compatibility contract with
// the store, so these tests compare exact JSON.
func TestBuildExpensePayloadEqual(t *testing.T) {
	d := calculator.NewDraft("g1", []string{"alice@example.com", "bob@example.com", "carol@example.com"}).
		WithTitle("  Dinner ").
		WithAmount("300").
		WithPayer("alice@example.com")

	payload, err := BuildExpensePayload(d)
	if err != nil {
		t.Fatalf("BuildExpensePayload failed: %v", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"groupId":"g1","title":"Dinner","amount":300,"paidBy":"alice@example.com",` +
		`"participants":["alice@example.com","bob@example.com","carol@example.com"],"splitType":"equal"}`
	if string(data) != want {
		t.Errorf("payload = %s\nwant     = %s", data, want)
	}
}

func TestBuildExpensePayloadUnequal(t *testing.T) {
	d := calculator.NewDraft("g1", []string{"alice@example.com", "bob@example.com", "carol@example.com"}).
		WithTitle("Taxi").
		WithAmount("300").
		WithSplitType(models.SplitUnequal).
		WithShare("alice@example.com", "100").
		WithShare("bob@example.com", "200").
		WithPayer("alice@example.com")
	// carol has no entered share and must be sent with share 0

	payload, err := BuildExpensePayload(d)
	if err != nil {
		t.Fatalf("BuildExpensePayload failed: %v", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"groupId":"g1","title":"Taxi","amount":300,"paidBy":"alice@example.com",` +
		`"participants":[{"userId":"alice@example.com","share":100},` +
		`{"userId":"bob@example.com","share":200},` +
		`{"userId":"carol@example.com","share":0}],"splitType":"unequal"}`
	if string(data) != want {
		t.Errorf("payload = %s\nwant     = %s", data, want)
	}
}

func TestBuildExpensePayloadInvalidAmount(t *testing.T) {
	d := calculator.NewDraft("g1", []string{"alice@example.com"}).
		WithPayer("alice@example.com").
		WithAmount("not-a-number")

	if _, err := BuildExpensePayload(d); err == nil {
		t.Error("expected error for unparseable amount")
	}
}
