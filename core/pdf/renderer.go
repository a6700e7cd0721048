// Package pdf renders contract and invoice records into PDF byte streams.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/adalundhe/freeflow/core/agents"
	"github.com/adalundhe/freeflow/core/domain"
	"github.com/go-pdf/fpdf"
)

// Renderer formats entity records as simple single-column PDF documents.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderContract renders a freelance service agreement from the contract's
// variable set. Fallback-produced variables carry the full key set, so
// nothing here needs to guard against missing fields.
func (r *Renderer) RenderContract(contract *domain.Contract) ([]byte, error) {
	variables, err := agents.ContractVariablesFromMap(contract.Variables)
	if err != nil {
		return nil, fmt.Errorf("decode contract variables: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(0, 14, "FREELANCE SERVICE AGREEMENT", "", 1, "L", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 11)
	writeField(doc, "Client", variables.ClientName)
	writeField(doc, "Company", variables.ClientCompany)
	writeField(doc, "Client Email", variables.ClientEmail)
	writeField(doc, "Freelancer", variables.FreelancerName)
	writeField(doc, "Business", variables.FreelancerBusiness)
	writeField(doc, "Budget", fmt.Sprintf("$%.2f", variables.ProjectBudget))
	writeField(doc, "Start Date", variables.StartDate)
	writeField(doc, "End Date", variables.EndDate)
	writeField(doc, "Payment Terms", variables.PaymentTerms)
	writeField(doc, "Net Terms", variables.NetTerms)
	writeField(doc, "Jurisdiction", variables.Jurisdiction)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Project Description", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, variables.ProjectDescription, "", "L", false)
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Deliverables", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, deliverable := range variables.DeliverablesList {
		doc.MultiCell(0, 6, "- "+deliverable, "", "L", false)
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Milestones", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, "1. "+variables.Milestone1, "", "L", false)
	doc.MultiCell(0, 6, "2. "+variables.Milestone2, "", "L", false)
	doc.MultiCell(0, 6, "3. "+variables.Milestone3, "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render contract pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderInvoice renders an invoice with its itemized details.
func (r *Renderer) RenderInvoice(invoice *domain.Invoice) ([]byte, error) {
	details, err := agents.InvoiceDetailsFromMap(invoice.Details)
	if err != nil {
		return nil, fmt.Errorf("decode invoice details: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(0, 14, "INVOICE", "", 1, "L", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 11)
	writeField(doc, "Invoice #", details.InvoiceNumber)
	writeField(doc, "Issue Date", details.IssueDate)
	writeField(doc, "Due Date", details.DueDate)
	writeField(doc, "Status", invoice.Status.String())
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Line Items", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, item := range details.LineItems {
		doc.CellFormat(140, 6, item.Description, "", 0, "L", false, 0, "")
		doc.CellFormat(0, 6, fmt.Sprintf("$%.2f", item.Amount), "", 1, "R", false, 0, "")
	}
	doc.Ln(2)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(140, 6, "Subtotal", "", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("$%.2f", details.Subtotal), "", 1, "R", false, 0, "")
	doc.CellFormat(140, 6, fmt.Sprintf("Tax (%.2f%%)", details.TaxRate*100), "", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("$%.2f", details.TaxAmount), "", 1, "R", false, 0, "")
	doc.CellFormat(140, 6, "Total Due", "", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("$%.2f", details.TotalDue), "", 1, "R", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, details.PaymentInstructions, "", "L", false)
	doc.MultiCell(0, 5, fmt.Sprintf("Payment via %s. Net %s terms, %s%% monthly late fee.",
		details.PaymentPlatform, details.NetTerms, details.LateFee), "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeField(doc *fpdf.Fpdf, label, value string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(40, 6, label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
