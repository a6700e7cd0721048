package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/providers"
)

const contractSystemPrompt = `You are an AI contract agent. Generate professional freelance contract variables.

Return JSON with these exact contract variables:
{
    "client_name": "client full name",
    "client_company": "company name or 'Individual' if none",
    "client_email": "client email address",
    "freelancer_name": "John Smith",
    "freelancer_business": "Smith Digital Services",
    "freelancer_email": "freelancer email address",
    "project_description": "detailed description of work to be performed",
    "deliverables_list": ["specific deliverable 1", "specific deliverable 2", "specific deliverable 3"],
    "start_date": "YYYY-MM-DD format",
    "end_date": "YYYY-MM-DD format",
    "milestone_1": "First milestone with deadline",
    "milestone_2": "Second milestone with deadline",
    "milestone_3": "Third milestone with deadline",
    "project_budget": 0,
    "payment_terms": "50% upfront, 50% on completion",
    "invoice_platform": "email",
    "net_terms": "30",
    "late_fee": "1.5",
    "jurisdiction": "State of California"
}

Rules for dates and milestones:
- Derive the end date from project complexity and budget tier:
  simple projects under $5,000 run 2-4 weeks, medium projects $5,000-$15,000
  run 4-8 weeks, large projects over $15,000 run 8-12 weeks.
- Provide 3-6 itemized deliverables specific to the project.
- Distribute the three milestones across the timeline: milestone_1 at
  roughly 20-30%, milestone_2 at roughly 50-60%, milestone_3 at 90-100%.
- Choose payment_terms by project size and risk from: "50% upfront, 50% on
  completion", "33% upfront, 33% midway, 34% on completion",
  "100% on completion", "25% upfront, 75% on completion".
- Always keep invoice_platform "email", net_terms "30", late_fee "1.5",
  and jurisdiction "State of California".`

// ContractVariables is the flat key set a freelance service agreement is
// rendered from. Every field is required; the PDF renderer assumes none are
// missing.
type ContractVariables struct {
	ClientName         string   `json:"client_name"`
	ClientCompany      string   `json:"client_company"`
	ClientEmail        string   `json:"client_email"`
	FreelancerName     string   `json:"freelancer_name"`
	FreelancerBusiness string   `json:"freelancer_business"`
	FreelancerEmail    string   `json:"freelancer_email"`
	ProjectDescription string   `json:"project_description"`
	DeliverablesList   []string `json:"deliverables_list"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Milestone1         string   `json:"milestone_1"`
	Milestone2         string   `json:"milestone_2"`
	Milestone3         string   `json:"milestone_3"`
	ProjectBudget      float64  `json:"project_budget"`
	PaymentTerms       string   `json:"payment_terms"`
	InvoicePlatform    string   `json:"invoice_platform"`
	NetTerms           string   `json:"net_terms"`
	LateFee            string   `json:"late_fee"`
	Jurisdiction       string   `json:"jurisdiction"`
}

// Validate checks that every required key is present and well-formed.
func (v *ContractVariables) Validate() error {
	required := map[string]string{
		"client_name":         v.ClientName,
		"client_company":      v.ClientCompany,
		"client_email":        v.ClientEmail,
		"freelancer_name":     v.FreelancerName,
		"freelancer_business": v.FreelancerBusiness,
		"freelancer_email":    v.FreelancerEmail,
		"project_description": v.ProjectDescription,
		"milestone_1":         v.Milestone1,
		"milestone_2":         v.Milestone2,
		"milestone_3":         v.Milestone3,
		"payment_terms":       v.PaymentTerms,
		"invoice_platform":    v.InvoicePlatform,
		"net_terms":           v.NetTerms,
		"late_fee":            v.LateFee,
		"jurisdiction":        v.Jurisdiction,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("contract variable %s is empty", key)
		}
	}

	if len(v.DeliverablesList) == 0 {
		return fmt.Errorf("deliverables_list is empty")
	}

	if _, err := time.Parse(DateLayout, v.StartDate); err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	if _, err := time.Parse(DateLayout, v.EndDate); err != nil {
		return fmt.Errorf("end_date: %w", err)
	}

	return nil
}

// ToMap converts the variables to the free-form mapping stored on the
// contract record.
func (v *ContractVariables) ToMap() map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// ContractVariablesFromMap rebuilds typed variables from a stored contract
// record.
func ContractVariablesFromMap(m map[string]any) (*ContractVariables, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var v ContractVariables
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ContractAgent produces contract variables for a freelance service
// agreement from project, client, and freelancer records.
type ContractAgent struct {
	provider providers.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewContractAgent creates a contract agent backed by the given provider.
// A nil now clock defaults to time.Now.
func NewContractAgent(provider providers.Provider, logger *slog.Logger, now func() time.Time) *ContractAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractAgent{
		provider: provider,
		logger:   logger.With("agent", "contract"),
		now:      nowOrDefault(now),
	}
}

// GenerateVariables produces the contract variable set. One provider call,
// no retries; any failure is absorbed by the deterministic fallback built
// from the input records. The second return reports whether the fallback
// was used, so callers can flag the audit event.
func (a *ContractAgent) GenerateVariables(ctx context.Context, project *domain.Project, client *domain.Client, freelancer *domain.User) (*ContractVariables, bool) {
	prompt := fmt.Sprintf(`Generate contract variables for this freelance project:

Client Information:
- Name: %s
- Email: %s
- Company: %s

Project Information:
- Title: %s
- Description: %s
- Budget: $%.2f
- Timeline: %s

Freelancer Information:
- Name: %s
- Email: %s

Use the actual freelancer name and create a business name if not provided.
Generate professional contract variables with realistic milestones and payment terms.`,
		client.Name,
		client.Email,
		orDefault(client.Company, "Individual"),
		project.Title,
		project.Description,
		budgetValue(project),
		orDefault(project.Timeline, "Not specified"),
		freelancer.Name,
		freelancer.Email,
	)

	resp, err := a.provider.Complete(ctx, &providers.Request{
		SystemPrompt: contractSystemPrompt,
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		a.logger.Error("contract agent error", "error", err)
		return a.fallback(project, client, freelancer), true
	}

	var variables ContractVariables
	if err := parseAgentJSON(resp.Content, &variables); err != nil {
		a.logger.Error("contract agent error", "error", err)
		return a.fallback(project, client, freelancer), true
	}

	if err := variables.Validate(); err != nil {
		a.logger.Error("contract agent schema mismatch", "error", err)
		return a.fallback(project, client, freelancer), true
	}

	return &variables, false
}

// fallback synthesizes the full variable set from the input records. The
// business name derives from the first token of the freelancer's name.
func (a *ContractAgent) fallback(project *domain.Project, client *domain.Client, freelancer *domain.User) *ContractVariables {
	name := orDefault(freelancer.Name, "Freelancer")
	business := strings.Fields(name)[0] + " Digital Services"

	today := a.now().UTC()

	return &ContractVariables{
		ClientName:         orDefault(client.Name, "Client Name"),
		ClientCompany:      orDefault(client.Company, "Individual"),
		ClientEmail:        orDefault(client.Email, "client@example.com"),
		FreelancerName:     name,
		FreelancerBusiness: business,
		FreelancerEmail:    orDefault(freelancer.Email, "freelancer@example.com"),
		ProjectDescription: orDefault(project.Description, "Professional services as described"),
		DeliverablesList: []string{
			"Project planning and requirements analysis",
			"Development and implementation",
			"Testing and quality assurance",
			"Final delivery and documentation",
		},
		StartDate:       today.Format(DateLayout),
		EndDate:         today.AddDate(0, 0, 30).Format(DateLayout),
		Milestone1:      "Project kickoff and requirements - Week 1",
		Milestone2:      "Development phase completion - Week 3",
		Milestone3:      "Final delivery and testing - Week 4",
		ProjectBudget:   budgetValue(project),
		PaymentTerms:    "50% upfront, 50% on completion",
		InvoicePlatform: "email",
		NetTerms:        "30",
		LateFee:         "1.5",
		Jurisdiction:    "State of California",
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func budgetValue(project *domain.Project) float64 {
	if project.Budget == nil {
		return 0
	}
	return *project.Budget
}
