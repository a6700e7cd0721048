package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/providers"
	"github.com/google/uuid"
)

const billingSystemPrompt = `You are an AI billing agent. Create professional invoices.

Return JSON with invoice data including ALL required fields:
{
    "invoice_number": "INV-2025-0001",
    "issue_date": "YYYY-MM-DD",
    "due_date": "YYYY-MM-DD",
    "line_items": [
        {"description": "Service 1", "amount": 0},
        {"description": "Service 2", "amount": 0}
    ],
    "subtotal": 0,
    "tax_rate": 0.00,
    "tax_amount": 0.00,
    "total_due": 0,
    "payment_platform": "Stripe",
    "payment_link": "https://pay.stripe.com/invoice_link",
    "payment_instructions": "Please process payment according to agreed terms.",
    "net_terms": "30",
    "late_fee": "1.5"
}

Rules:
- invoice_number is "INV-" plus the year and a 4 digit sequence, or "INV-"
  plus 8 random uppercase alphanumerics.
- issue_date is today; due_date is exactly 30 days after issue_date.
- Produce 3-6 line items whose amounts sum EXACTLY to the given total.
  The amounts must reconcile, not approximate.
- tax_rate defaults to 0; tax_amount = subtotal * tax_rate;
  total_due = subtotal + tax_amount.
- Always include invoice_number, issue_date, and due_date fields.
- Break down the project amount into logical service components.`

// LineItem is one itemized charge on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// InvoiceDetails is the fixed-schema billing payload. Subtotal and TotalDue
// are always forced to the caller-supplied amount after parsing, so the
// totals reconcile no matter what the model returned.
type InvoiceDetails struct {
	InvoiceNumber       string     `json:"invoice_number"`
	IssueDate           string     `json:"issue_date"`
	DueDate             string     `json:"due_date"`
	LineItems           []LineItem `json:"line_items"`
	Subtotal            float64    `json:"subtotal"`
	TaxRate             float64    `json:"tax_rate"`
	TaxAmount           float64    `json:"tax_amount"`
	TotalDue            float64    `json:"total_due"`
	PaymentPlatform     string     `json:"payment_platform"`
	PaymentLink         string     `json:"payment_link"`
	PaymentInstructions string     `json:"payment_instructions"`
	NetTerms            string     `json:"net_terms"`
	LateFee             string     `json:"late_fee"`
}

// centsTolerance bounds acceptable float drift when checking that line
// items sum to the invoice amount.
const centsTolerance = 0.01

// Validate checks the parts of the payload the caller cannot repair.
// Missing dates, invoice numbers, and totals are backfilled instead.
func (d *InvoiceDetails) Validate() error {
	if len(d.LineItems) == 0 {
		return fmt.Errorf("line_items is empty")
	}
	for i, item := range d.LineItems {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("line item %d has no description", i)
		}
		if item.Amount < 0 {
			return fmt.Errorf("line item %d has negative amount", i)
		}
	}
	return nil
}

// ToMap converts the details to the free-form mapping stored on the invoice
// record.
func (d *InvoiceDetails) ToMap() map[string]any {
	data, err := json.Marshal(d)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// InvoiceDetailsFromMap rebuilds typed details from a stored invoice record.
func InvoiceDetailsFromMap(m map[string]any) (*InvoiceDetails, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var d InvoiceDetails
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// BillingAgent produces an itemized invoice payload from a project, a
// target amount, and a billing mode.
type BillingAgent struct {
	provider providers.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewBillingAgent creates a billing agent backed by the given provider.
// A nil now clock defaults to time.Now.
func NewBillingAgent(provider providers.Provider, logger *slog.Logger, now func() time.Time) *BillingAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillingAgent{
		provider: provider,
		logger:   logger.With("agent", "billing"),
		now:      nowOrDefault(now),
	}
}

// GenerateDetails produces invoice details for the given amount and mode
// ("fixed", "hourly", or "milestone"). The second return reports whether
// the deterministic fallback was used.
//
// Regardless of path, the returned payload satisfies: subtotal == total_due
// == amount, line item amounts sum to amount, and invoice_number,
// issue_date, and due_date are present.
func (a *BillingAgent) GenerateDetails(ctx context.Context, project *domain.Project, amount float64, mode string) (*InvoiceDetails, bool) {
	prompt := fmt.Sprintf(`Generate invoice data for:
Project: %s - %s
Amount: $%.2f
Mode: %s

Create appropriate line items based on the project description and amount.
Include invoice number, issue date (today), and due date (30 days from today).
MUST include all required fields: invoice_number, issue_date, due_date.`,
		project.Title, project.Description, amount, mode)

	resp, err := a.provider.Complete(ctx, &providers.Request{
		SystemPrompt: billingSystemPrompt,
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		a.logger.Error("billing agent error", "error", err)
		return a.fallback(amount), true
	}

	var details InvoiceDetails
	if err := parseAgentJSON(resp.Content, &details); err != nil {
		a.logger.Error("billing agent error", "error", err)
		return a.fallback(amount), true
	}

	if err := details.Validate(); err != nil {
		a.logger.Error("billing agent schema mismatch", "error", err)
		return a.fallback(amount), true
	}

	if drift := math.Abs(lineItemTotal(details.LineItems) - amount); drift > centsTolerance {
		a.logger.Error("billing agent line items do not reconcile",
			"amount", amount,
			"drift", drift,
		)
		return a.fallback(amount), true
	}

	a.reconcile(&details, amount)
	return &details, false
}

// reconcile enforces the billing invariants on a model-produced payload:
// the three header fields are backfilled if absent and the totals are
// overwritten with the caller-supplied amount.
func (a *BillingAgent) reconcile(details *InvoiceDetails, amount float64) {
	today := a.now().UTC()

	if details.InvoiceNumber == "" {
		details.InvoiceNumber = newInvoiceNumber()
	}
	if details.IssueDate == "" {
		details.IssueDate = today.Format(DateLayout)
	}
	if details.DueDate == "" {
		details.DueDate = today.AddDate(0, 0, 30).Format(DateLayout)
	}

	details.Subtotal = amount
	details.TaxAmount = roundCents(details.Subtotal * details.TaxRate)
	details.TotalDue = amount
}

// fallback splits the amount 60/30/10 across three generic line items. The
// last item absorbs rounding drift so the items sum exactly to amount.
func (a *BillingAgent) fallback(amount float64) *InvoiceDetails {
	today := a.now().UTC()

	development := roundCents(amount * 0.6)
	testing := roundCents(amount * 0.3)
	delivery := roundCents(amount - development - testing)

	return &InvoiceDetails{
		InvoiceNumber: newInvoiceNumber(),
		IssueDate:     today.Format(DateLayout),
		DueDate:       today.AddDate(0, 0, 30).Format(DateLayout),
		LineItems: []LineItem{
			{Description: "Project development and implementation", Amount: development},
			{Description: "Testing and quality assurance", Amount: testing},
			{Description: "Final delivery and support", Amount: delivery},
		},
		Subtotal:            amount,
		TaxRate:             0,
		TaxAmount:           0,
		TotalDue:            amount,
		PaymentPlatform:     "Stripe",
		PaymentLink:         "https://pay.stripe.com/invoice_link",
		PaymentInstructions: "Please process payment according to agreed terms.",
		NetTerms:            "30",
		LateFee:             "1.5",
	}
}

func lineItemTotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount
	}
	return sum
}

func newInvoiceNumber() string {
	id := strings.ToUpper(uuid.New().String())
	return "INV-" + strings.ReplaceAll(id, "-", "")[:8]
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
