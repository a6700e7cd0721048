package agents

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceNumberPattern = regexp.MustCompile(`^INV-[0-9A-F]{8}$`)

func testBillingProject() *domain.Project {
	return &domain.Project{
		ID:          "proj-1",
		Title:       "API Integration",
		Description: "Integrate the payments API",
	}
}

func lineItemSum(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount
	}
	return sum
}

func TestBillingAgentParsesStructuredResponse(t *testing.T) {
	provider := &fakeProvider{content: `{
		"invoice_number": "INV-2026-0042",
		"issue_date": "2026-08-28",
		"due_date": "2026-09-27",
		"line_items": [
			{"description": "API integration work", "amount": 6000},
			{"description": "Documentation", "amount": 3000}
		],
		"subtotal": 9000,
		"tax_rate": 0,
		"tax_amount": 0,
		"total_due": 9000,
		"payment_platform": "Stripe",
		"payment_link": "https://pay.stripe.com/invoice_link",
		"payment_instructions": "Please process payment according to agreed terms.",
		"net_terms": "30",
		"late_fee": "1.5"
	}`}

	agent := NewBillingAgent(provider, testLogger(), nil)
	details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), 9000, "fixed")

	assert.False(t, usedFallback)
	assert.Equal(t, "INV-2026-0042", details.InvoiceNumber)
	assert.Len(t, details.LineItems, 2)
	assert.Equal(t, 9000.0, details.Subtotal)
	assert.Equal(t, 9000.0, details.TotalDue)
}

func TestBillingAgentReconcilesModelTotals(t *testing.T) {
	// Header totals disagree with the requested amount, but the line items
	// sum correctly. The headers get overwritten, not the items.
	provider := &fakeProvider{content: `{
		"invoice_number": "INV-2026-0001",
		"issue_date": "2026-08-28",
		"due_date": "2026-09-27",
		"line_items": [
			{"description": "Development", "amount": 6000},
			{"description": "Review", "amount": 3000}
		],
		"subtotal": 5000,
		"tax_rate": 0.1,
		"tax_amount": 500,
		"total_due": 5500
	}`}

	agent := NewBillingAgent(provider, testLogger(), nil)
	details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), 9000, "fixed")

	assert.False(t, usedFallback)
	assert.Equal(t, 9000.0, details.Subtotal)
	assert.Equal(t, 9000.0, details.TotalDue)
	assert.Equal(t, 900.0, details.TaxAmount)
	assert.InDelta(t, 9000.0, lineItemSum(details.LineItems), 0.01)
}

func TestBillingAgentFallbackOnIrreconcilableLineItems(t *testing.T) {
	// Line items that do not sum to the requested amount cannot be repaired
	// by rewriting headers, so the payload routes to the fallback.
	provider := &fakeProvider{content: `{
		"invoice_number": "INV-2026-0002",
		"issue_date": "2026-08-28",
		"due_date": "2026-09-27",
		"line_items": [{"description": "Work", "amount": 5000}],
		"subtotal": 5000,
		"tax_rate": 0,
		"tax_amount": 0,
		"total_due": 5000
	}`}

	agent := NewBillingAgent(provider, testLogger(), nil)
	details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), 9000, "fixed")

	assert.True(t, usedFallback)
	assert.InDelta(t, 9000.0, lineItemSum(details.LineItems), 0.01)
	assert.Equal(t, 9000.0, details.Subtotal)
	assert.Equal(t, 9000.0, details.TotalDue)
}

func TestBillingAgentBackfillsMissingHeaderFields(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	provider := &fakeProvider{content: `{
		"line_items": [{"description": "Work", "amount": 9000}]
	}`}

	agent := NewBillingAgent(provider, testLogger(), fixedClock(now))
	details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), 9000, "fixed")

	assert.False(t, usedFallback)
	assert.Regexp(t, invoiceNumberPattern, details.InvoiceNumber)
	assert.Equal(t, "2026-08-28", details.IssueDate)
	assert.Equal(t, "2026-09-27", details.DueDate)
}

func TestBillingAgentFallbackSplit(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	provider := &fakeProvider{err: errProviderDown}
	agent := NewBillingAgent(provider, testLogger(), fixedClock(now))

	details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), 9000, "fixed")

	assert.True(t, usedFallback)
	require.Len(t, details.LineItems, 3)
	assert.Equal(t, 5400.0, details.LineItems[0].Amount)
	assert.Equal(t, 2700.0, details.LineItems[1].Amount)
	assert.Equal(t, 900.0, details.LineItems[2].Amount)
	assert.Equal(t, 9000.0, details.Subtotal)
	assert.Equal(t, 9000.0, details.TotalDue)
	assert.Equal(t, "2026-08-28", details.IssueDate)
	assert.Equal(t, "2026-09-27", details.DueDate)
	assert.Regexp(t, invoiceNumberPattern, details.InvoiceNumber)
}

func TestBillingAgentFallbackSumsExactly(t *testing.T) {
	provider := &fakeProvider{err: errProviderDown}
	agent := NewBillingAgent(provider, testLogger(), nil)

	for _, amount := range []float64{100, 999.99, 1234.56, 0.03, 7777.77} {
		details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), amount, "hourly")

		assert.True(t, usedFallback)
		assert.InDelta(t, amount, lineItemSum(details.LineItems), 0.001)
		assert.Equal(t, amount, details.Subtotal)
		assert.Equal(t, amount, details.TotalDue)
	}
}

func TestBillingAgentFallbackOnMalformedJSON(t *testing.T) {
	provider := &fakeProvider{content: "Sure! Here's your invoice:"}
	agent := NewBillingAgent(provider, testLogger(), nil)

	details, usedFallback := agent.GenerateDetails(context.Background(), testBillingProject(), 500, "milestone")

	assert.True(t, usedFallback)
	assert.Equal(t, 500.0, details.TotalDue)
}

func TestInvoiceDetailsValidate(t *testing.T) {
	valid := &InvoiceDetails{LineItems: []LineItem{{Description: "Work", Amount: 10}}}
	require.NoError(t, valid.Validate())

	empty := &InvoiceDetails{}
	require.Error(t, empty.Validate())

	blankDescription := &InvoiceDetails{LineItems: []LineItem{{Description: " ", Amount: 10}}}
	require.Error(t, blankDescription.Validate())

	negative := &InvoiceDetails{LineItems: []LineItem{{Description: "Work", Amount: -1}}}
	require.Error(t, negative.Validate())
}

func TestInvoiceDetailsMapRoundTrip(t *testing.T) {
	agent := NewBillingAgent(&fakeProvider{err: errProviderDown}, testLogger(), nil)
	original, _ := agent.GenerateDetails(context.Background(), testBillingProject(), 1200, "fixed")

	restored, err := InvoiceDetailsFromMap(original.ToMap())
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}
