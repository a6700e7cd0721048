package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adalundhe/freeflow/core/providers"
)

const (
	// IntakeStatusComplete means the inquiry carried enough signal to open
	// a project directly.
	IntakeStatusComplete = "intake_complete"

	// IntakeStatusNeedsInfo routes the inquiry to the manual review queue.
	IntakeStatusNeedsInfo = "needs_more_info"
)

const intakeSystemPrompt = `You are an AI intake agent for a freelancer workflow system.
Your job is to extract structured information from raw client inquiries.

Extract and return JSON with this exact structure:
{
    "client": {
        "name": "extracted name",
        "email": "extracted email",
        "company": "extracted company if mentioned"
    },
    "project": {
        "title": "project title",
        "description": "project description",
        "timeline": "extracted timeline",
        "budget": "extracted budget amount as number or null"
    },
    "confidence": {
        "budget": 0.0-1.0,
        "timeline": 0.0-1.0
    },
    "status": "intake_complete" or "needs_more_info"
}

Be thorough but concise. If information is missing or unclear, set confidence scores lower.`

// IntakeClient is the client portion of a parsed inquiry.
type IntakeClient struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// IntakeProject is the project portion of a parsed inquiry.
type IntakeProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timeline    string   `json:"timeline"`
	Budget      *float64 `json:"budget"`
}

// IntakeConfidence scores how certain the model was about the extracted
// budget and timeline.
type IntakeConfidence struct {
	Budget   float64 `json:"budget"`
	Timeline float64 `json:"timeline"`
}

// IntakeResult is the fixed-schema output of the intake agent. Fallback is
// true when the payload was synthesized locally instead of extracted by the
// model; it is surfaced in event payloads and logs, never in the response
// body shape.
type IntakeResult struct {
	Client     IntakeClient     `json:"client"`
	Project    IntakeProject    `json:"project"`
	Confidence IntakeConfidence `json:"confidence"`
	Status     string           `json:"status"`
	Fallback   bool             `json:"-"`
}

// Validate rejects payloads the model shaped wrong. Anything invalid routes
// to the deterministic fallback, same as a parse failure.
func (r *IntakeResult) Validate() error {
	if r.Status != IntakeStatusComplete && r.Status != IntakeStatusNeedsInfo {
		return fmt.Errorf("intake status must be %q or %q, got %q",
			IntakeStatusComplete, IntakeStatusNeedsInfo, r.Status)
	}
	if r.Confidence.Budget < 0 || r.Confidence.Budget > 1 {
		return fmt.Errorf("budget confidence out of range: %v", r.Confidence.Budget)
	}
	if r.Confidence.Timeline < 0 || r.Confidence.Timeline > 1 {
		return fmt.Errorf("timeline confidence out of range: %v", r.Confidence.Timeline)
	}
	return nil
}

// IntakeAgent converts unstructured inquiry text into a structured intake
// record. It is stateless; failures never propagate past ProcessInquiry.
type IntakeAgent struct {
	provider providers.Provider
	logger   *slog.Logger
}

// NewIntakeAgent creates an intake agent backed by the given provider.
func NewIntakeAgent(provider providers.Provider, logger *slog.Logger) *IntakeAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntakeAgent{
		provider: provider,
		logger:   logger.With("agent", "intake"),
	}
}

// ProcessInquiry extracts structured intake data from raw inquiry text. On
// any provider, parse, or validation failure it returns the deterministic
// fallback: empty client, the raw text preserved verbatim as the project
// description, zero confidence, and needs_more_info status.
func (a *IntakeAgent) ProcessInquiry(ctx context.Context, rawText string) *IntakeResult {
	resp, err := a.provider.Complete(ctx, &providers.Request{
		SystemPrompt: intakeSystemPrompt,
		Messages: []providers.Message{
			{
				Role:    providers.RoleUser,
				Content: fmt.Sprintf("Extract project information from this inquiry: %s", rawText),
			},
		},
	})
	if err != nil {
		a.logger.Error("intake agent error", "error", err)
		return a.fallback(rawText)
	}

	var result IntakeResult
	if err := parseAgentJSON(resp.Content, &result); err != nil {
		a.logger.Error("intake agent error", "error", err)
		return a.fallback(rawText)
	}

	if err := result.Validate(); err != nil {
		a.logger.Error("intake agent schema mismatch", "error", err)
		return a.fallback(rawText)
	}

	return &result
}

func (a *IntakeAgent) fallback(rawText string) *IntakeResult {
	return &IntakeResult{
		Client: IntakeClient{},
		Project: IntakeProject{
			Description: rawText,
		},
		Confidence: IntakeConfidence{},
		Status:     IntakeStatusNeedsInfo,
		Fallback:   true,
	}
}
