package service

import (
	"context"
	"fmt"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/money"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/receipt"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
)

// ReceiptsAgent reviews uploaded receipts: listing, auto-approval sweeps,
// and category suggestions.
type ReceiptsAgent struct {
	store database.Store
	now   func() time.Time
}

// NewReceiptsAgent creates a ReceiptsAgent.
func NewReceiptsAgent(store database.Store) *ReceiptsAgent {
	return &ReceiptsAgent{store: store, now: time.Now}
}

func (a *ReceiptsAgent) Name() string    { return intent.AgentReceipts }
func (a *ReceiptsAgent) Type() task.Type { return task.TypeReceipts }
func (a *ReceiptsAgent) Active() bool    { return true }

func (a *ReceiptsAgent) Capabilities() []string {
	return []string{"view", "approve", "categorize", "summary"}
}

// View keywords are matched before approval ones so "show receipts pending
// approval" lists instead of approving.
var receiptsOps = []opRule{
	{keywords: []string{"view", "show", "list", "visa"}, op: "view"},
	{keywords: []string{"approve", "approval", "godkänn"}, op: "approve"},
	{keywords: []string{"categoriz", "kategoris"}, op: "categorize"},
	{keywords: []string{"summary", "total", "sammanfattning"}, op: "summary"},
}

func (a *ReceiptsAgent) ProcessTask(ctx context.Context, t *task.Task) (*task.Response, error) {
	switch matchOp(receiptsOps, t.Description, "overview") {
	case "view":
		return a.view(ctx, t)
	case "approve":
		return a.approve(ctx)
	case "categorize":
		return a.categorize(ctx)
	case "summary":
		return a.summary(ctx)
	default:
		return a.overview(ctx)
	}
}

func (a *ReceiptsAgent) view(ctx context.Context, t *task.Task) (*task.Response, error) {
	if descContains(t.Description, "pending", "väntar", "ej godkän") {
		receipts, err := a.store.ListReceiptsByStatus(ctx, receipt.StatusPending)
		if err != nil {
			return nil, fmt.Errorf("list pending receipts: %w", err)
		}
		var total float64
		for _, r := range receipts {
			total += r.Amount
		}
		return &task.Response{
			Success:     true,
			Data:        receipts,
			Message:     fmt.Sprintf("%d kvitton väntar på godkännande, totalt %s.", len(receipts), money.SEK(total)),
			Suggestions: []string{"Säg \"godkänn kvitton\" så går jag igenom dem åt dig."},
		}, nil
	}

	receipts, err := a.store.ListReceipts(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return &task.Response{
		Success: true,
		Data:    receipts,
		Message: fmt.Sprintf("Här är dina %d senaste kvitton.", len(receipts)),
	}, nil
}

// approve sweeps pending receipts through the auto-approval rule. Receipts
// the rule rejects stay pending with the reason attached for manual review.
func (a *ReceiptsAgent) approve(ctx context.Context) (*task.Response, error) {
	pending, err := a.store.ListReceiptsByStatus(ctx, receipt.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending receipts: %w", err)
	}
	if len(pending) == 0 {
		return &task.Response{Success: true, Message: "Det finns inga kvitton som väntar på godkännande."}, nil
	}

	type held struct {
		Receipt receipt.Receipt `json:"receipt"`
		Reason  string          `json:"reason"`
	}
	var (
		approved []receipt.Receipt
		review   []held
	)
	now := a.now()
	for _, r := range pending {
		ok, reason := receipt.EvaluateApproval(&r)
		if !ok {
			review = append(review, held{Receipt: r, Reason: reason})
			continue
		}
		if err := a.store.UpdateReceiptStatus(ctx, r.ID, receipt.StatusApproved, &now); err != nil {
			return nil, fmt.Errorf("approve receipt %s: %w", r.ID, err)
		}
		r.Status = receipt.StatusApproved
		r.ApprovedAt = &now
		approved = append(approved, r)
	}

	resp := &task.Response{
		Success: true,
		Data: map[string]any{
			"approved":     approved,
			"needs_review": review,
		},
		Message: fmt.Sprintf("Jag godkände %d kvitton automatiskt. %d behöver manuell granskning.",
			len(approved), len(review)),
	}
	for _, h := range review {
		resp.Insights = append(resp.Insights,
			fmt.Sprintf("%s på %s behöver granskas: %s.", h.Receipt.Vendor, money.SEK(h.Receipt.Amount), reviewReason(h.Reason)))
	}
	return resp, nil
}

// categorize suggests a category for pending receipts that lack one.
func (a *ReceiptsAgent) categorize(ctx context.Context) (*task.Response, error) {
	pending, err := a.store.ListReceiptsByStatus(ctx, receipt.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending receipts: %w", err)
	}

	type suggestion struct {
		Receipt  receipt.Receipt `json:"receipt"`
		Category string          `json:"category"`
	}
	var suggestions []suggestion
	for _, r := range pending {
		if r.Category != "" {
			continue
		}
		suggestions = append(suggestions, suggestion{
			Receipt:  r,
			Category: suggestCategory(r.Vendor, ""),
		})
	}
	if len(suggestions) == 0 {
		return &task.Response{Success: true, Message: "Alla väntande kvitton har redan en kategori."}, nil
	}
	return &task.Response{
		Success: true,
		Data:    suggestions,
		Message: fmt.Sprintf("Jag har kategoriförslag för %d kvitton.", len(suggestions)),
	}, nil
}

func (a *ReceiptsAgent) summary(ctx context.Context) (*task.Response, error) {
	approved, err := a.store.ListReceiptsByStatus(ctx, receipt.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved receipts: %w", err)
	}

	byCategory := map[string]float64{}
	var total float64
	for _, r := range approved {
		byCategory[categoryOr(r.Category)] += r.Amount
		total += r.Amount
	}
	return &task.Response{
		Success: true,
		Data: map[string]any{
			"total":       total,
			"count":       len(approved),
			"by_category": byCategory,
		},
		Message: fmt.Sprintf("Du har %d godkända kvitton på totalt %s.", len(approved), money.SEK(total)),
	}, nil
}

func (a *ReceiptsAgent) overview(ctx context.Context) (*task.Response, error) {
	pending, err := a.store.ListReceiptsByStatus(ctx, receipt.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending receipts: %w", err)
	}

	resp := &task.Response{
		Success: true,
		Data:    map[string]any{"pending": len(pending)},
		Message: fmt.Sprintf("Du har %d kvitton som väntar på hantering.", len(pending)),
	}
	if len(pending) > 0 {
		resp.Suggestions = append(resp.Suggestions, "Vill du att jag går igenom och godkänner dem?")
	}
	return resp, nil
}

func reviewReason(reason string) string {
	switch reason {
	case receipt.ReasonAmountTooHigh:
		return "beloppet överstiger gränsen för automatiskt godkännande"
	case receipt.ReasonIncompleteInfo:
		return "uppgifterna är ofullständiga"
	default:
		return reason
	}
}
