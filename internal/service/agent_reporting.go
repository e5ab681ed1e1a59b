package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/money"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/cache"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
)

// ReportingAgent builds financial reports over the transaction ledger.
// Reports for the same period are cached and concurrent identical requests
// are collapsed to a single computation.
type ReportingAgent struct {
	store database.Store
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time

	group singleflight.Group
}

// NewReportingAgent creates a ReportingAgent. cache may be nil to disable
// report caching.
func NewReportingAgent(store database.Store, c cache.Cache, ttl time.Duration) *ReportingAgent {
	return &ReportingAgent{store: store, cache: c, ttl: ttl, now: time.Now}
}

func (a *ReportingAgent) Name() string    { return intent.AgentReporting }
func (a *ReportingAgent) Type() task.Type { return task.TypeReporting }
func (a *ReportingAgent) Active() bool    { return true }

func (a *ReportingAgent) Capabilities() []string {
	return []string{"profit", "cashflow", "expenses", "summary"}
}

var reportingOps = []opRule{
	{keywords: []string{"profit", "p&l", "resultat", "vinst"}, op: "profit"},
	{keywords: []string{"cash flow", "cashflow", "kassaflöde", "likviditet"}, op: "cashflow"},
	{keywords: []string{"expense", "cost", "kostnad", "utgift", "spending"}, op: "expenses"},
	{keywords: []string{"summary", "report", "rapport", "sammanfattning", "månadsrapport"}, op: "summary"},
}

func (a *ReportingAgent) ProcessTask(ctx context.Context, t *task.Task) (*task.Response, error) {
	op := matchOp(reportingOps, t.Description, "summary")
	return a.cached(ctx, op, func() (*task.Response, error) {
		switch op {
		case "profit":
			return a.profit(ctx)
		case "cashflow":
			return a.cashflow(ctx)
		case "expenses":
			return a.expenses(ctx)
		default:
			return a.summary(ctx)
		}
	})
}

// cached wraps a report computation in a cache lookup keyed by operation and
// month, using singleflight so only one goroutine computes a cold entry.
func (a *ReportingAgent) cached(ctx context.Context, op string, compute func() (*task.Response, error)) (*task.Response, error) {
	if a.cache == nil {
		return compute()
	}

	key := fmt.Sprintf("report:%s:%s", op, a.now().Format("2006-01"))
	if data, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		var resp task.Response
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, nil
		}
		slog.Warn("evicting undecodable cached report", "key", key)
		_ = a.cache.Delete(ctx, key)
	}

	v, err, _ := a.group.Do(key, func() (any, error) {
		resp, err := compute()
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(resp); err == nil {
			if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
				slog.Warn("cache report", "key", key, "error", err)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*task.Response), nil
}

func (a *ReportingAgent) monthTotals(ctx context.Context) (income, expenses float64, byCategory map[string]float64, err error) {
	now := a.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	txs, err := a.store.ListTransactionsBetween(ctx, from, now)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("list transactions: %w", err)
	}

	byCategory = map[string]float64{}
	for _, tx := range txs {
		if tx.Direction == ledger.DirectionIncome {
			income += tx.Amount
		} else {
			expenses += tx.Amount
			byCategory[categoryOr(tx.Category)] += tx.Amount
		}
	}
	return income, expenses, byCategory, nil
}

func (a *ReportingAgent) profit(ctx context.Context) (*task.Response, error) {
	income, expenses, _, err := a.monthTotals(ctx)
	if err != nil {
		return nil, err
	}
	profit := income - expenses

	resp := &task.Response{
		Success: true,
		Data: map[string]any{
			"income":   income,
			"expenses": expenses,
			"profit":   profit,
		},
		Message: fmt.Sprintf("Resultat denna månad: %s i intäkter, %s i kostnader. Vinst: %s.",
			money.SEK(income), money.SEK(expenses), money.SEK(profit)),
	}
	if profit < 0 {
		resp.Insights = append(resp.Insights,
			fmt.Sprintf("Kostnaderna överstiger intäkterna med %s denna månad.", money.SEK(-profit)))
	}
	return resp, nil
}

func (a *ReportingAgent) cashflow(ctx context.Context) (*task.Response, error) {
	income, expenses, _, err := a.monthTotals(ctx)
	if err != nil {
		return nil, err
	}
	net := income - expenses

	direction := "positivt"
	if net < 0 {
		direction = "negativt"
	}
	return &task.Response{
		Success: true,
		Data: map[string]any{
			"inflow":  income,
			"outflow": expenses,
			"net":     net,
		},
		Message: fmt.Sprintf("Kassaflödet denna månad är %s: %s in, %s ut, netto %s.",
			direction, money.SEK(income), money.SEK(expenses), money.SEK(net)),
	}, nil
}

// expenses breaks this month's spending down by category, largest first.
func (a *ReportingAgent) expenses(ctx context.Context) (*task.Response, error) {
	_, total, byCategory, err := a.monthTotals(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &task.Response{Success: true, Message: "Inga kostnader bokförda denna månad."}, nil
	}

	type categoryTotal struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}
	breakdown := make([]categoryTotal, 0, len(byCategory))
	for cat, amt := range byCategory {
		breakdown = append(breakdown, categoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Amount > breakdown[j].Amount })

	resp := &task.Response{
		Success: true,
		Data:    breakdown,
		Message: fmt.Sprintf("Kostnader denna månad: %s. Största posten är %s (%s).",
			money.SEK(total), breakdown[0].Category, money.SEK(breakdown[0].Amount)),
	}
	if share := breakdown[0].Amount / total; share > 0.5 {
		resp.Insights = append(resp.Insights,
			fmt.Sprintf("%s står för %.0f%% av månadens kostnader.", breakdown[0].Category, share*100))
	}
	return resp, nil
}

func (a *ReportingAgent) summary(ctx context.Context) (*task.Response, error) {
	income, expenses, byCategory, err := a.monthTotals(ctx)
	if err != nil {
		return nil, err
	}
	profit := income - expenses

	return &task.Response{
		Success: true,
		Data: map[string]any{
			"income":      income,
			"expenses":    expenses,
			"profit":      profit,
			"by_category": byCategory,
		},
		Message: fmt.Sprintf("Månadssammanfattning: %s i intäkter, %s i kostnader, %s i resultat.",
			money.SEK(income), money.SEK(expenses), money.SEK(profit)),
		Suggestions: []string{"Vill du se kostnaderna per kategori eller kassaflödet i detalj?"},
	}, nil
}

func categoryOr(category string) string {
	if category == "" {
		return "Okategoriserat"
	}
	return category
}
