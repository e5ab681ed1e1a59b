package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/client"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/invoice"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/money"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
)

// numberRetries bounds how often invoice creation retries after losing the
// invoice-number race to a concurrent insert.
const numberRetries = 3

// InvoicingAgent creates and tracks customer invoices.
type InvoicingAgent struct {
	store database.Store
	now   func() time.Time
}

// NewInvoicingAgent creates an InvoicingAgent.
func NewInvoicingAgent(store database.Store) *InvoicingAgent {
	return &InvoicingAgent{store: store, now: time.Now}
}

func (a *InvoicingAgent) Name() string    { return intent.AgentInvoicing }
func (a *InvoicingAgent) Type() task.Type { return task.TypeInvoicing }
func (a *InvoicingAgent) Active() bool    { return true }

func (a *InvoicingAgent) Capabilities() []string {
	return []string{"generate", "view", "track", "remind", "recurring", "analyze"}
}

var invoicingOps = []opRule{
	{keywords: []string{"remind", "påminn"}, op: "remind"},
	{keywords: []string{"overdue", "late", "unpaid", "försen", "obetal", "track"}, op: "track"},
	{keywords: []string{"recurring", "subscription", "återkommande", "abonnemang"}, op: "recurring"},
	{keywords: []string{"analyz", "analys", "risk", "payment behavior"}, op: "analyze"},
	{keywords: []string{"create", "generate", "new invoice", "skapa", "ny faktura"}, op: "generate"},
	{keywords: []string{"view", "show", "list", "visa"}, op: "view"},
}

// ProcessTask routes the task to one invoicing operation by description
// keywords and returns its result.
func (a *InvoicingAgent) ProcessTask(ctx context.Context, t *task.Task) (*task.Response, error) {
	switch matchOp(invoicingOps, t.Description, "overview") {
	case "generate":
		return a.generate(ctx, t)
	case "view":
		return a.view(ctx, t)
	case "track":
		return a.track(ctx)
	case "remind":
		return a.remind(ctx)
	case "recurring":
		return a.recurring(ctx, t)
	case "analyze":
		return a.analyze(ctx)
	default:
		return a.overview(ctx)
	}
}

// generate creates a draft invoice for the named client. The stated amount
// is the pre-tax base; standard VAT is added on top. The invoice number is
// derived from the last one and the insert is retried when a concurrent
// creation takes the same number first.
func (a *InvoicingAgent) generate(ctx context.Context, t *task.Task) (*task.Response, error) {
	ents := taskEntities(t)

	name := ents.ClientName
	if name == "" {
		name = intent.ExtractClientName(t.Description)
	}
	if name == "" {
		return failure("Jag behöver veta vilken kund fakturan gäller. Ange ett kundnamn, t.ex. \"skapa en faktura till Joakim på 12 000 kr\"."), nil
	}

	amount := ents.Amount
	if amount == 0 {
		amount = intent.ExtractAmount(t.Description)
	}
	if amount <= 0 {
		return failure(fmt.Sprintf("Jag behöver ett belopp för fakturan till %s. Ange beloppet exklusive moms.", name)), nil
	}

	cl, err := a.store.FindClientByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failure(fmt.Sprintf("Jag hittade ingen kund som matchar %q. Lägg upp kunden först.", name)), nil
		}
		return nil, fmt.Errorf("find client: %w", err)
	}

	tax, total := ledger.AddVAT(amount, ledger.VATStandard)
	now := a.now()

	var created *invoice.Invoice
	for attempt := 0; attempt <= numberRetries; attempt++ {
		last, err := a.store.LastInvoiceNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("last invoice number: %w", err)
		}

		created, err = a.store.CreateInvoice(ctx, &invoice.Invoice{
			ID:        uuid.NewString(),
			Number:    invoice.NextNumber(last, now.Year()),
			ClientID:  cl.ID,
			Amount:    amount,
			Tax:       tax,
			Total:     total,
			Status:    invoice.StatusDraft,
			DueDate:   now.AddDate(0, 0, cl.PaymentTerms),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConflict) && attempt < numberRetries {
			continue
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	resp := &task.Response{
		Success: true,
		Data:    created,
		Message: fmt.Sprintf("Faktura %s skapad för %s på %s exkl. moms. Totalt %s inkl. moms (%s). Förfaller %s.",
			created.Number, cl.Name, money.SEK(amount), money.SEK(total), money.SEK(tax),
			created.DueDate.Format("2006-01-02")),
		Suggestions: []string{
			"Vill du att jag skickar fakturan direkt?",
			"Säg till om du vill göra den återkommande.",
		},
	}
	if risk := client.RiskForTerms(cl.PaymentTerms); risk != client.RiskLow {
		resp.Insights = append(resp.Insights,
			fmt.Sprintf("%s har %d dagars betalningsvillkor (%s risk). Överväg kortare villkor.", cl.Name, cl.PaymentTerms, riskLabel(risk)))
	}
	return resp, nil
}

func (a *InvoicingAgent) view(ctx context.Context, t *task.Task) (*task.Response, error) {
	var (
		invoices []invoice.Invoice
		err      error
	)
	if descContains(t.Description, "unpaid", "obetal") {
		invoices, err = a.store.ListInvoicesByStatus(ctx, invoice.StatusSent)
	} else {
		invoices, err = a.store.ListInvoices(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var outstanding float64
	for _, inv := range invoices {
		if inv.Status == invoice.StatusSent || inv.Status == invoice.StatusOverdue {
			outstanding += inv.Total
		}
	}
	return &task.Response{
		Success: true,
		Data:    invoices,
		Message: fmt.Sprintf("Du har %d fakturor, varav %s är utestående.", len(invoices), money.SEK(outstanding)),
	}, nil
}

// track reports which sent invoices are past due and how late they are.
func (a *InvoicingAgent) track(ctx context.Context) (*task.Response, error) {
	invoices, err := a.store.ListInvoicesByStatus(ctx, invoice.StatusSent)
	if err != nil {
		return nil, fmt.Errorf("list sent invoices: %w", err)
	}

	now := a.now()
	type overdueInvoice struct {
		invoice.Invoice
		DaysOverdue int `json:"days_overdue"`
	}
	var overdue []overdueInvoice
	var total float64
	for _, inv := range invoices {
		if days := inv.DaysOverdue(now); days > 0 {
			overdue = append(overdue, overdueInvoice{Invoice: inv, DaysOverdue: days})
			total += inv.Total
		}
	}

	if len(overdue) == 0 {
		return &task.Response{
			Success: true,
			Message: "Inga förfallna fakturor just nu. Bra jobbat!",
		}, nil
	}

	resp := &task.Response{
		Success: true,
		Data:    overdue,
		Message: fmt.Sprintf("%d fakturor är förfallna, totalt %s.", len(overdue), money.SEK(total)),
		Insights: []string{
			fmt.Sprintf("Förfallna fakturor motsvarar %s i uteblivet kassaflöde.", money.SEK(total)),
		},
		Suggestions: []string{"Vill du att jag förbereder betalningspåminnelser?"},
	}
	return resp, nil
}

// remind drafts a payment reminder per overdue invoice, graded by how late
// the payment is.
func (a *InvoicingAgent) remind(ctx context.Context) (*task.Response, error) {
	invoices, err := a.store.ListInvoicesByStatus(ctx, invoice.StatusSent)
	if err != nil {
		return nil, fmt.Errorf("list sent invoices: %w", err)
	}

	now := a.now()
	type reminder struct {
		InvoiceNumber string               `json:"invoice_number"`
		ClientID      string               `json:"client_id"`
		DaysOverdue   int                  `json:"days_overdue"`
		Tier          invoice.ReminderTier `json:"tier"`
		Draft         string               `json:"draft"`
	}
	var reminders []reminder
	for _, inv := range invoices {
		days := inv.DaysOverdue(now)
		if days <= 0 {
			continue
		}
		tier := invoice.TierForDaysOverdue(days)
		reminders = append(reminders, reminder{
			InvoiceNumber: inv.Number,
			ClientID:      inv.ClientID,
			DaysOverdue:   days,
			Tier:          tier,
			Draft:         reminderDraft(tier, inv.Number, inv.Total, days),
		})
	}

	if len(reminders) == 0 {
		return &task.Response{Success: true, Message: "Det finns inga förfallna fakturor att påminna om."}, nil
	}
	return &task.Response{
		Success: true,
		Data:    reminders,
		Message: fmt.Sprintf("Jag har förberett %d betalningspåminnelser. Granska utkasten innan de skickas.", len(reminders)),
	}, nil
}

func reminderDraft(tier invoice.ReminderTier, number string, total float64, days int) string {
	switch tier {
	case invoice.ReminderGentle:
		return fmt.Sprintf("Hej! En vänlig påminnelse om faktura %s på %s som förföll för %d dagar sedan.", number, money.SEK(total), days)
	case invoice.ReminderFirm:
		return fmt.Sprintf("Påminnelse: faktura %s på %s är %d dagar försenad. Vänligen betala omgående.", number, money.SEK(total), days)
	default:
		return fmt.Sprintf("Slutlig påminnelse: faktura %s på %s är %d dagar försenad. Vid utebliven betalning går ärendet vidare till inkasso.", number, money.SEK(total), days)
	}
}

// recurring lists active billing templates, or sets one up when the message
// asks for it.
func (a *InvoicingAgent) recurring(ctx context.Context, t *task.Task) (*task.Response, error) {
	if descContains(t.Description, "create", "set up", "setup", "skapa", "lägg upp") {
		return a.createRecurring(ctx, t)
	}

	templates, err := a.store.ListRecurringTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}

	var monthly float64
	active := 0
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}
		active++
		switch tpl.Interval {
		case "monthly":
			monthly += tpl.Amount
		case "quarterly":
			monthly += tpl.Amount / 3
		case "yearly":
			monthly += tpl.Amount / 12
		}
	}
	return &task.Response{
		Success: true,
		Data:    templates,
		Message: fmt.Sprintf("Du har %d aktiva återkommande faktureringar, motsvarande cirka %s per månad.", active, money.SEK(monthly)),
	}, nil
}

func (a *InvoicingAgent) createRecurring(ctx context.Context, t *task.Task) (*task.Response, error) {
	ents := taskEntities(t)

	name := ents.ClientName
	if name == "" {
		name = intent.ExtractClientName(t.Description)
	}
	if name == "" {
		return failure("Jag behöver veta vilken kund den återkommande faktureringen gäller."), nil
	}
	amount := ents.Amount
	if amount == 0 {
		amount = intent.ExtractAmount(t.Description)
	}
	if amount <= 0 {
		return failure(fmt.Sprintf("Jag behöver ett belopp för den återkommande faktureringen till %s.", name)), nil
	}

	cl, err := a.store.FindClientByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failure(fmt.Sprintf("Jag hittade ingen kund som matchar %q.", name)), nil
		}
		return nil, fmt.Errorf("find client: %w", err)
	}

	interval := "monthly"
	switch {
	case descContains(t.Description, "quarter", "kvartal"):
		interval = "quarterly"
	case descContains(t.Description, "year", "annual", "årsvis", "årlig"):
		interval = "yearly"
	}

	now := a.now()
	tpl, err := a.store.CreateRecurringTemplate(ctx, &invoice.RecurringTemplate{
		ID:        uuid.NewString(),
		ClientID:  cl.ID,
		Amount:    amount,
		Interval:  interval,
		NextRunAt: now.AddDate(0, 1, 0),
		Active:    true,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create recurring template: %w", err)
	}

	return &task.Response{
		Success: true,
		Data:    tpl,
		Message: fmt.Sprintf("Återkommande fakturering upplagd för %s: %s (%s). Första fakturan genereras %s.",
			cl.Name, money.SEK(amount), intervalLabel(interval), tpl.NextRunAt.Format("2006-01-02")),
	}, nil
}

func intervalLabel(interval string) string {
	switch interval {
	case "quarterly":
		return "per kvartal"
	case "yearly":
		return "per år"
	default:
		return "per månad"
	}
}

// analyze grades each client's payment risk from their terms and unpaid volume.
func (a *InvoicingAgent) analyze(ctx context.Context) (*task.Response, error) {
	clients, err := a.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	type clientRisk struct {
		Client client.Client `json:"client"`
		Risk   client.Risk   `json:"risk"`
		Unpaid float64       `json:"unpaid"`
	}
	var (
		analysis []clientRisk
		insights []string
	)
	for _, cl := range clients {
		invoices, err := a.store.ListInvoicesByClient(ctx, cl.ID)
		if err != nil {
			return nil, fmt.Errorf("list invoices for client %s: %w", cl.ID, err)
		}
		var unpaid float64
		for _, inv := range invoices {
			if inv.Status == invoice.StatusSent || inv.Status == invoice.StatusOverdue {
				unpaid += inv.Total
			}
		}
		risk := client.RiskForTerms(cl.PaymentTerms)
		analysis = append(analysis, clientRisk{Client: cl, Risk: risk, Unpaid: unpaid})
		if risk == client.RiskHigh && unpaid > 0 {
			insights = append(insights,
				fmt.Sprintf("%s har hög risk (%d dagars villkor) och %s obetalt.", cl.Name, cl.PaymentTerms, money.SEK(unpaid)))
		}
	}
	return &task.Response{
		Success:  true,
		Data:     analysis,
		Message:  fmt.Sprintf("Jag har analyserat betalningsrisken för %d kunder.", len(analysis)),
		Insights: insights,
	}, nil
}

func (a *InvoicingAgent) overview(ctx context.Context) (*task.Response, error) {
	invoices, err := a.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	counts := map[invoice.Status]int{}
	var outstanding float64
	for _, inv := range invoices {
		counts[inv.Status]++
		if inv.Status == invoice.StatusSent || inv.Status == invoice.StatusOverdue {
			outstanding += inv.Total
		}
	}
	return &task.Response{
		Success: true,
		Data: map[string]any{
			"total":       len(invoices),
			"draft":       counts[invoice.StatusDraft],
			"sent":        counts[invoice.StatusSent],
			"paid":        counts[invoice.StatusPaid],
			"overdue":     counts[invoice.StatusOverdue],
			"outstanding": outstanding,
		},
		Message: fmt.Sprintf("Fakturaläge: %d totalt, %d skickade, %d betalda. Utestående: %s.",
			len(invoices), counts[invoice.StatusSent], counts[invoice.StatusPaid], money.SEK(outstanding)),
	}, nil
}

func riskLabel(r client.Risk) string {
	switch r {
	case client.RiskLow:
		return "låg"
	case client.RiskMedium:
		return "medel"
	default:
		return "hög"
	}
}
