// Package pipeline drives the project lifecycle: Intake → Contract →
// Billing → Done. Each step calls one agent, persists its result, advances
// the project status, and appends exactly one audit event under a fresh
// trace id — all inside a single store transaction.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adalundhe/freeflow/core/agents"
	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/google/uuid"
)

// DefaultOwnerID is the MVP caller identity used when no identity header is
// supplied.
const DefaultOwnerID = "user_1"

// ErrInvalidAmount rejects non-positive invoice amounts before any agent
// call happens.
var ErrInvalidAmount = errors.New("amount must be positive")

// FreelancerIdentity is the configured fallback identity used when a
// project's owner has no user record.
type FreelancerIdentity struct {
	Name  string
	Email string
}

// Pipeline owns the three agents and the entity store.
type Pipeline struct {
	store      *store.Store
	intake     *agents.IntakeAgent
	contract   *agents.ContractAgent
	billing    *agents.BillingAgent
	freelancer FreelancerIdentity
	logger     *slog.Logger
	now        func() time.Time
}

// New wires a pipeline. A nil now clock defaults to time.Now.
func New(st *store.Store, intake *agents.IntakeAgent, contract *agents.ContractAgent, billing *agents.BillingAgent, freelancer FreelancerIdentity, logger *slog.Logger, now func() time.Time) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		store:      st,
		intake:     intake,
		contract:   contract,
		billing:    billing,
		freelancer: freelancer,
		logger:     logger.With("component", "pipeline"),
		now:        now,
	}
}

// ParseEmail runs the intake agent over raw inquiry text and records the
// outcome. Agent failures never surface: the caller always receives a
// well-formed result, with needs_more_info routing on fallback.
func (p *Pipeline) ParseEmail(ctx context.Context, rawText string) (*agents.IntakeResult, error) {
	traceID := uuid.New().String()

	result := p.intake.ProcessInquiry(ctx, rawText)

	kind := domain.EventIntakeCompleted
	if result.Status != agents.IntakeStatusComplete {
		kind = domain.EventIntakeNeedsInfo
	}

	payload := toPayload(result)
	payload["is_fallback"] = result.Fallback

	event := domain.NewAgentEvent(traceID, kind, "intake", traceID, payload)
	if err := p.store.AppendEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("append intake event: %w", err)
	}

	p.logger.Info("intake parsed",
		"trace_id", traceID,
		"status", result.Status,
		"is_fallback", result.Fallback,
	)

	return result, nil
}

// CreateManualIntake creates (or reuses, by email) a client and creates a
// project in Intake status from a reviewed intake result. The client write,
// project write, and event append commit atomically.
func (p *Pipeline) CreateManualIntake(ctx context.Context, result *agents.IntakeResult, ownerID string) (projectID, clientID string, err error) {
	if ownerID == "" {
		ownerID = DefaultOwnerID
	}
	traceID := uuid.New().String()

	err = p.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.GetClientByEmail(ctx, result.Client.Email)
		switch {
		case err == nil:
			clientID = existing.ID
		case errors.Is(err, store.ErrNotFound):
			client := &domain.Client{
				ID:        uuid.New().String(),
				Name:      result.Client.Name,
				Email:     result.Client.Email,
				Company:   result.Client.Company,
				OwnerID:   ownerID,
				CreatedAt: p.now().UTC(),
			}
			if err := tx.InsertClient(ctx, client); err != nil {
				return fmt.Errorf("insert client: %w", err)
			}
			clientID = client.ID
		default:
			return fmt.Errorf("lookup client: %w", err)
		}

		project := &domain.Project{
			ID:          uuid.New().String(),
			ClientID:    clientID,
			Title:       result.Project.Title,
			Description: result.Project.Description,
			Budget:      result.Project.Budget,
			Timeline:    result.Project.Timeline,
			Status:      domain.ProjectIntake,
			OwnerID:     ownerID,
			CreatedAt:   p.now().UTC(),
		}
		if err := tx.InsertProject(ctx, project); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		projectID = project.ID

		event := domain.NewAgentEvent(traceID, domain.EventIntakeCompleted, "project", project.ID, map[string]any{
			"client_id": clientID,
			"project":   toPayload(project),
		})
		if err := tx.AppendEvent(ctx, event); err != nil {
			return fmt.Errorf("append event: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", "", err
	}

	p.logger.Info("manual intake created",
		"trace_id", traceID,
		"project_id", projectID,
		"client_id", clientID,
	)

	return projectID, clientID, nil
}

// ProjectInput carries the fields for a directly created project.
type ProjectInput struct {
	ClientID    string
	Title       string
	Description string
	Budget      *float64
	Timeline    string
	OwnerID     string
}

// CreateProject creates a project in Intake status against an existing
// client and records the intake event atomically with the insert.
func (p *Pipeline) CreateProject(ctx context.Context, input ProjectInput) (*domain.Project, error) {
	if input.OwnerID == "" {
		input.OwnerID = DefaultOwnerID
	}
	traceID := uuid.New().String()

	if _, err := p.store.GetClient(ctx, input.ClientID); err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}

	project := &domain.Project{
		ID:          uuid.New().String(),
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Timeline:    input.Timeline,
		Status:      domain.ProjectIntake,
		OwnerID:     input.OwnerID,
		CreatedAt:   p.now().UTC(),
	}

	err := p.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.InsertProject(ctx, project); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}

		event := domain.NewAgentEvent(traceID, domain.EventIntakeCompleted, "project", project.ID, toPayload(project))
		if err := tx.AppendEvent(ctx, event); err != nil {
			return fmt.Errorf("append event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("project created", "trace_id", traceID, "project_id", project.ID)
	return project, nil
}

// GenerateContract runs the contract agent for a project and advances the
// project to Contract status. The contract insert, status update, and
// Contract.Sent event commit atomically.
func (p *Pipeline) GenerateContract(ctx context.Context, projectID, templateID string) (*domain.Contract, error) {
	traceID := uuid.New().String()

	project, err := p.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	client, err := p.store.GetClient(ctx, project.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}

	freelancer, err := p.loadFreelancer(ctx, project.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load freelancer: %w", err)
	}

	variables, usedFallback := p.contract.GenerateVariables(ctx, project, client, freelancer)

	contract := &domain.Contract{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		Variables:         variables.ToMap(),
		SignatureProvider: domain.SignatureHelloSign,
		Status:            domain.ContractDraft,
		CreatedAt:         p.now().UTC(),
	}

	err = p.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.InsertContract(ctx, contract); err != nil {
			return fmt.Errorf("insert contract: %w", err)
		}

		if err := tx.UpdateProjectStatus(ctx, projectID, domain.ProjectContract); err != nil {
			return fmt.Errorf("update project status: %w", err)
		}

		payload := toPayload(contract)
		payload["template_id"] = templateID
		payload["is_fallback"] = usedFallback

		event := domain.NewAgentEvent(traceID, domain.EventContractSent, "contract", contract.ID, payload)
		if err := tx.AppendEvent(ctx, event); err != nil {
			return fmt.Errorf("append event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("contract generated",
		"trace_id", traceID,
		"contract_id", contract.ID,
		"project_id", projectID,
		"is_fallback", usedFallback,
	)

	return contract, nil
}

// SendContract marks a contract as awaiting signature. The signature
// provider integration itself is an acknowledged no-op.
func (p *Pipeline) SendContract(ctx context.Context, contractID string) error {
	if err := p.store.UpdateContractStatus(ctx, contractID, domain.ContractAwaitingSignature, nil); err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}

	p.logger.Info("contract sent for signature", "contract_id", contractID)
	return nil
}

// CreateInvoice runs the billing agent for a project and advances the
// project to Billing status. The invoice insert, status update, and
// Invoice.Sent event commit atomically. The agent payload always reconciles
// against amount, fallback or not.
func (p *Pipeline) CreateInvoice(ctx context.Context, projectID string, amount float64, mode string) (*domain.Invoice, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	traceID := uuid.New().String()

	project, err := p.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	details, usedFallback := p.billing.GenerateDetails(ctx, project, amount, mode)

	dueDate, err := time.Parse(agents.DateLayout, details.DueDate)
	if err != nil {
		// reconcile guarantees a parseable due date on both paths
		dueDate = p.now().UTC().AddDate(0, 0, 30)
	}

	invoice := &domain.Invoice{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Amount:    amount,
		DueDate:   dueDate,
		Status:    domain.InvoiceSentStatus,
		Details:   details.ToMap(),
		CreatedAt: p.now().UTC(),
	}

	err = p.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.InsertInvoice(ctx, invoice); err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		if err := tx.UpdateProjectStatus(ctx, projectID, domain.ProjectBilling); err != nil {
			return fmt.Errorf("update project status: %w", err)
		}

		payload := toPayload(invoice)
		payload["is_fallback"] = usedFallback

		event := domain.NewAgentEvent(traceID, domain.EventInvoiceSent, "invoice", invoice.ID, payload)
		if err := tx.AppendEvent(ctx, event); err != nil {
			return fmt.Errorf("append event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("invoice created",
		"trace_id", traceID,
		"invoice_id", invoice.ID,
		"project_id", projectID,
		"amount", amount,
		"is_fallback", usedFallback,
	)

	return invoice, nil
}

// loadFreelancer resolves a project owner to a user record, synthesizing
// one from the configured identity when the owner has no account yet.
func (p *Pipeline) loadFreelancer(ctx context.Context, ownerID string) (*domain.User, error) {
	user, err := p.store.GetUser(ctx, ownerID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return &domain.User{
		ID:    ownerID,
		Name:  p.freelancer.Name,
		Email: p.freelancer.Email,
	}, nil
}

// toPayload flattens a record into the free-form event payload mapping.
func toPayload(v any) map[string]any {
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
