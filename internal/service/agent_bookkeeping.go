package service

import (
	"context"
	"fmt"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/money"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
)

// BookkeepingAgent records and categorizes transactions and answers VAT
// questions.
type BookkeepingAgent struct {
	store database.Store
	now   func() time.Time
}

// NewBookkeepingAgent creates a BookkeepingAgent.
func NewBookkeepingAgent(store database.Store) *BookkeepingAgent {
	return &BookkeepingAgent{store: store, now: time.Now}
}

func (a *BookkeepingAgent) Name() string    { return intent.AgentBookkeeping }
func (a *BookkeepingAgent) Type() task.Type { return task.TypeBookkeeping }
func (a *BookkeepingAgent) Active() bool    { return true }

func (a *BookkeepingAgent) Capabilities() []string {
	return []string{"categorize", "record", "view", "vat"}
}

var bookkeepingOps = []opRule{
	{keywords: []string{"categoriz", "kategoris", "uncategorized", "okategoris"}, op: "categorize"},
	{keywords: []string{"vat", "moms", "tax report", "skatt"}, op: "vat"},
	{keywords: []string{"record", "bokför", "add expense", "add transaction", "new transaction"}, op: "record"},
	{keywords: []string{"view", "show", "list", "visa", "recent", "senaste"}, op: "view"},
}

func (a *BookkeepingAgent) ProcessTask(ctx context.Context, t *task.Task) (*task.Response, error) {
	switch matchOp(bookkeepingOps, t.Description, "overview") {
	case "categorize":
		return a.categorize(ctx)
	case "record":
		return a.record(ctx, t)
	case "vat":
		return a.vat(ctx)
	case "view":
		return a.view(ctx)
	default:
		return a.overview(ctx)
	}
}

// categorize assigns a category to every uncategorized transaction, guessed
// from the vendor and description.
func (a *BookkeepingAgent) categorize(ctx context.Context) (*task.Response, error) {
	txs, err := a.store.ListUncategorizedTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized transactions: %w", err)
	}
	if len(txs) == 0 {
		return &task.Response{Success: true, Message: "Alla transaktioner är redan kategoriserade."}, nil
	}

	type categorized struct {
		Transaction ledger.Transaction `json:"transaction"`
		Category    string             `json:"category"`
	}
	var done []categorized
	for _, tx := range txs {
		category := suggestCategory(tx.Vendor, tx.Description)
		if err := a.store.UpdateTransactionCategory(ctx, tx.ID, category); err != nil {
			return nil, fmt.Errorf("categorize transaction %s: %w", tx.ID, err)
		}
		done = append(done, categorized{Transaction: tx, Category: category})
	}
	return &task.Response{
		Success:     true,
		Data:        done,
		Message:     fmt.Sprintf("Jag har kategoriserat %d transaktioner.", len(done)),
		Suggestions: []string{"Säg till om någon kategori blev fel så rättar jag den."},
	}, nil
}

// record books a new transaction from the message. The stated amount is
// treated as gross; the store back-calculates the VAT portion.
func (a *BookkeepingAgent) record(ctx context.Context, t *task.Task) (*task.Response, error) {
	ents := taskEntities(t)
	amount := ents.Amount
	if amount == 0 {
		amount = intent.ExtractAmount(t.Description)
	}
	if amount <= 0 {
		return failure("Jag behöver ett belopp för att bokföra transaktionen."), nil
	}

	direction := ledger.DirectionExpense
	if descContains(t.Description, "income", "intäkt", "inkomst", "payment received") {
		direction = ledger.DirectionIncome
	}

	category := suggestCategory("", t.Description)
	tx, err := a.store.CreateTransaction(ctx, ledger.CreateRequest{
		Description: t.Description,
		Amount:      amount,
		Category:    category,
		Direction:   direction,
		Date:        a.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	return &task.Response{
		Success: true,
		Data:    tx,
		Message: fmt.Sprintf("Transaktion på %s bokförd som %s (moms %s).",
			money.SEK(tx.Amount), tx.Category, money.SEK(tx.Tax)),
	}, nil
}

// vat summarizes the current quarter's VAT position: output VAT on income
// minus input VAT on expenses.
func (a *BookkeepingAgent) vat(ctx context.Context) (*task.Response, error) {
	now := a.now()
	from := quarterStart(now)
	txs, err := a.store.ListTransactionsBetween(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var outputVAT, inputVAT float64
	for _, tx := range txs {
		if tx.Direction == ledger.DirectionIncome {
			outputVAT += tx.Tax
		} else {
			inputVAT += tx.Tax
		}
	}
	net := outputVAT - inputVAT

	msg := fmt.Sprintf("Momsläge för kvartalet: utgående moms %s, ingående moms %s. Att betala: %s.",
		money.SEK(outputVAT), money.SEK(inputVAT), money.SEK(net))
	if net < 0 {
		msg = fmt.Sprintf("Momsläge för kvartalet: utgående moms %s, ingående moms %s. Att få tillbaka: %s.",
			money.SEK(outputVAT), money.SEK(inputVAT), money.SEK(-net))
	}

	return &task.Response{
		Success: true,
		Data: map[string]any{
			"period_start": from,
			"output_vat":   outputVAT,
			"input_vat":    inputVAT,
			"net_vat":      net,
		},
		Message: msg,
	}, nil
}

func (a *BookkeepingAgent) view(ctx context.Context) (*task.Response, error) {
	txs, err := a.store.ListTransactions(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &task.Response{
		Success: true,
		Data:    txs,
		Message: fmt.Sprintf("Här är dina %d senaste transaktioner.", len(txs)),
	}, nil
}

func (a *BookkeepingAgent) overview(ctx context.Context) (*task.Response, error) {
	now := a.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	txs, err := a.store.ListTransactionsBetween(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var income, expenses float64
	uncategorized := 0
	for _, tx := range txs {
		if tx.Direction == ledger.DirectionIncome {
			income += tx.Amount
		} else {
			expenses += tx.Amount
		}
		if tx.Category == "" {
			uncategorized++
		}
	}

	resp := &task.Response{
		Success: true,
		Data: map[string]any{
			"income":        income,
			"expenses":      expenses,
			"uncategorized": uncategorized,
		},
		Message: fmt.Sprintf("Bokföring denna månad: %s in, %s ut.", money.SEK(income), money.SEK(expenses)),
	}
	if uncategorized > 0 {
		resp.Insights = append(resp.Insights,
			fmt.Sprintf("%d transaktioner saknar kategori. Be mig kategorisera dem.", uncategorized))
	}
	return resp, nil
}

func quarterStart(now time.Time) time.Time {
	q := (int(now.Month()) - 1) / 3
	return time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, now.Location())
}
