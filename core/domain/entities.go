package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a freelancer account. Passwords are stored as plaintext for the
// MVP; the auth endpoints are not a security boundary.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Client is an inbound customer, owned by exactly one User.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Project tracks one engagement through the Intake → Contract → Billing →
// Done lifecycle.
type Project struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Budget      *float64      `json:"budget,omitempty"`
	Timeline    string        `json:"timeline,omitempty"`
	Status      ProjectStatus `json:"status"`
	OwnerID     string        `json:"owner_id"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Contract holds the agent-generated variable set for one freelance service
// agreement. Variables always carries the full required key set, whether it
// came from the model or the deterministic fallback.
type Contract struct {
	ID                string            `json:"id"`
	ProjectID         string            `json:"project_id"`
	Variables         map[string]any    `json:"variables"`
	SignatureProvider SignatureProvider `json:"signature_provider"`
	SignatureID       string            `json:"signature_id,omitempty"`
	Status            ContractStatus    `json:"status"`
	SignedAt          *time.Time        `json:"signed_at,omitempty"`
	PDFURL            string            `json:"pdf_url,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Invoice is one billing request against a project. Details is the
// agent-generated itemization; Amount is authoritative and the pipeline
// forces the detail totals to reconcile against it.
type Invoice struct {
	ID             string         `json:"id"`
	ProjectID      string         `json:"project_id"`
	Amount         float64        `json:"amount"`
	DueDate        time.Time      `json:"due_date"`
	Status         InvoiceStatus  `json:"status"`
	StripeIntentID string         `json:"stripe_intent_id,omitempty"`
	Details        map[string]any `json:"details"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AgentEvent is one entry in the append-only audit trail. Every
// state-changing pipeline step records exactly one event under a fresh
// trace id before reporting success.
type AgentEvent struct {
	ID         string         `json:"id"`
	TraceID    string         `json:"trace_id"`
	Kind       EventKind      `json:"kind"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewAgentEvent creates an event with a fresh id and current timestamp.
func NewAgentEvent(traceID string, kind EventKind, entityType, entityID string, payload map[string]any) *AgentEvent {
	if payload == nil {
		payload = make(map[string]any)
	}
	return &AgentEvent{
		ID:         uuid.New().String(),
		TraceID:    traceID,
		Kind:       kind,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
}
