package providers

import (
	"context"
)

// Provider is the gateway to an external text-completion service. Agents
// treat it as opaque: a system prompt plus user messages in, free-form text
// out. Everything downstream (fence stripping, JSON parsing, schema
// validation, fallback) happens at the agent boundary.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
	ValidateConfig() error
	Close() error
}

// ProviderModelSupporter is implemented by providers that can report model
// support without a network round trip.
type ProviderModelSupporter interface {
	SupportsModel(model string) bool
}

type Request struct {
	Messages      []Message `json:"messages"`
	Model         string    `json:"model,omitempty"`
	MaxTokens     int       `json:"max_tokens,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	SystemPrompt  string    `json:"system_prompt,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Response struct {
	Content    string     `json:"content"`
	Model      string     `json:"model"`
	StopReason StopReason `json:"stop_reason"`
	Usage      Usage      `json:"usage"`
}

type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonError        StopReason = "error"
)

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
