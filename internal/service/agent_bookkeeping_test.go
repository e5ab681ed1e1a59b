package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
)

func bookkeepingTask(message string, ents intent.Entities) *task.Task {
	return &task.Task{
		ID:          "t-1",
		Type:        task.TypeBookkeeping,
		Description: "Handle bookkeeping request: " + message,
		Input: map[string]any{
			"user_message": message,
			"entities":     ents,
		},
		Status:    task.StatusProcessing,
		CreatedAt: time.Now(),
	}
}

func TestBookkeepingCategorize(t *testing.T) {
	store := &mockStore{transactions: []ledger.Transaction{
		{ID: "tx-1", Vendor: "AWS", Description: "cloud hosting", Direction: ledger.DirectionExpense},
		{ID: "tx-2", Vendor: "ICA Maxi", Description: "groceries", Direction: ledger.DirectionExpense},
		{ID: "tx-3", Vendor: "Telia", Category: "Telefoni", Direction: ledger.DirectionExpense},
	}}
	a := NewBookkeepingAgent(store)
	a.now = fixedNow

	resp, err := a.ProcessTask(context.Background(), bookkeepingTask("categorize my transactions", intent.Entities{}))
	if err != nil || !resp.Success {
		t.Fatalf("ProcessTask: err=%v resp=%+v", err, resp)
	}

	byID := map[string]ledger.Transaction{}
	for _, tx := range store.transactions {
		byID[tx.ID] = tx
	}
	if byID["tx-1"].Category != "IT & Mjukvara" {
		t.Errorf("tx-1 category = %q, want IT & Mjukvara", byID["tx-1"].Category)
	}
	if byID["tx-2"].Category != "Mat" {
		t.Errorf("tx-2 category = %q, want Mat", byID["tx-2"].Category)
	}
	if !strings.Contains(resp.Message, "2 transaktioner") {
		t.Errorf("only the 2 uncategorized transactions should be touched: %q", resp.Message)
	}
}

func TestBookkeepingRecordBackCalculatesVAT(t *testing.T) {
	store := &mockStore{}
	a := NewBookkeepingAgent(store)
	a.now = fixedNow

	resp, err := a.ProcessTask(context.Background(),
		bookkeepingTask("record an expense of 1250 kr for hosting", intent.Entities{Amount: 1250}))
	if err != nil || !resp.Success {
		t.Fatalf("ProcessTask: err=%v resp=%+v", err, resp)
	}
	if len(store.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(store.transactions))
	}
	tx := store.transactions[0]
	if tx.Amount != 1250 {
		t.Errorf("amount = %v, want gross 1250", tx.Amount)
	}
	// 25% VAT back-calculated from gross: 1250 * 0.25/1.25 = 250.
	if tx.Tax != 250 {
		t.Errorf("tax = %v, want 250", tx.Tax)
	}
	if tx.Direction != ledger.DirectionExpense {
		t.Errorf("direction = %s, want expense", tx.Direction)
	}
}

func TestBookkeepingRecordMissingAmount(t *testing.T) {
	store := &mockStore{}
	a := NewBookkeepingAgent(store)
	a.now = fixedNow

	resp, err := a.ProcessTask(context.Background(), bookkeepingTask("record an expense", intent.Entities{}))
	if err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if resp.Success {
		t.Fatal("missing amount must fail validation")
	}
	if len(store.transactions) != 0 {
		t.Error("nothing may be persisted on validation failure")
	}
}

func TestBookkeepingVATSummary(t *testing.T) {
	now := fixedNow()
	store := &mockStore{transactions: []ledger.Transaction{
		{ID: "tx-1", Direction: ledger.DirectionIncome, Amount: 12500, Tax: 2500, Date: now.AddDate(0, 0, -3)},
		{ID: "tx-2", Direction: ledger.DirectionExpense, Amount: 2500, Tax: 500, Date: now.AddDate(0, 0, -2)},
		// Previous quarter, must be excluded.
		{ID: "tx-3", Direction: ledger.DirectionIncome, Amount: 50000, Tax: 10000, Date: now.AddDate(0, -4, 0)},
	}}
	a := NewBookkeepingAgent(store)
	a.now = func() time.Time { return now }

	resp, err := a.ProcessTask(context.Background(), bookkeepingTask("how much moms do I owe?", intent.Entities{}))
	if err != nil || !resp.Success {
		t.Fatalf("ProcessTask: err=%v resp=%+v", err, resp)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data type %T", resp.Data)
	}
	if data["output_vat"] != 2500.0 || data["input_vat"] != 500.0 || data["net_vat"] != 2000.0 {
		t.Errorf("vat summary = %+v, want 2500/500/2000", data)
	}
}

func TestQuarterStart(t *testing.T) {
	tests := []struct {
		month time.Month
		want  time.Month
	}{
		{time.January, time.January},
		{time.March, time.January},
		{time.April, time.April},
		{time.July, time.July},
		{time.September, time.July},
		{time.December, time.October},
	}
	for _, tt := range tests {
		now := time.Date(2025, tt.month, 20, 0, 0, 0, 0, time.UTC)
		if got := quarterStart(now); got.Month() != tt.want {
			t.Errorf("quarterStart(%s) = %s, want %s", tt.month, got.Month(), tt.want)
		}
	}
}
