package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeAgentParsesStructuredResponse(t *testing.T) {
	provider := &fakeProvider{content: "```json\n" + `{
		"client": {"name": "Sarah Johnson", "email": "sarah@acme.com", "company": "Acme Corp"},
		"project": {"title": "Marketing Site", "description": "Five page marketing site", "timeline": "6 weeks", "budget": 8000},
		"confidence": {"budget": 0.9, "timeline": 0.8},
		"status": "intake_complete"
	}` + "\n```"}

	agent := NewIntakeAgent(provider, testLogger())
	result := agent.ProcessInquiry(context.Background(), "Hi, I need a website...")

	assert.False(t, result.Fallback)
	assert.Equal(t, IntakeStatusComplete, result.Status)
	assert.Equal(t, "Sarah Johnson", result.Client.Name)
	assert.Equal(t, "sarah@acme.com", result.Client.Email)
	require.NotNil(t, result.Project.Budget)
	assert.Equal(t, 8000.0, *result.Project.Budget)
	assert.Equal(t, 0.9, result.Confidence.Budget)
}

func TestIntakeAgentFallbackOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errProviderDown}
	agent := NewIntakeAgent(provider, testLogger())

	rawText := "Hi, I'm interested in working with you on a data pipeline."
	result := agent.ProcessInquiry(context.Background(), rawText)

	assert.True(t, result.Fallback)
	assert.Equal(t, IntakeStatusNeedsInfo, result.Status)
	assert.Equal(t, rawText, result.Project.Description)
	assert.Empty(t, result.Client.Name)
	assert.Empty(t, result.Client.Email)
	assert.Nil(t, result.Project.Budget)
	assert.Zero(t, result.Confidence.Budget)
	assert.Zero(t, result.Confidence.Timeline)
}

func TestIntakeAgentFallbackOnMalformedJSON(t *testing.T) {
	provider := &fakeProvider{content: "I'd be happy to help! Here is the information..."}
	agent := NewIntakeAgent(provider, testLogger())

	result := agent.ProcessInquiry(context.Background(), "raw inquiry text")

	assert.True(t, result.Fallback)
	assert.Equal(t, IntakeStatusNeedsInfo, result.Status)
	assert.Equal(t, "raw inquiry text", result.Project.Description)
}

func TestIntakeAgentFallbackOnInvalidStatus(t *testing.T) {
	provider := &fakeProvider{content: `{
		"client": {"name": "A", "email": "a@b.com", "company": ""},
		"project": {"title": "T", "description": "D", "timeline": "", "budget": null},
		"confidence": {"budget": 0.5, "timeline": 0.5},
		"status": "done"
	}`}
	agent := NewIntakeAgent(provider, testLogger())

	result := agent.ProcessInquiry(context.Background(), "inquiry")

	assert.True(t, result.Fallback)
	assert.Equal(t, IntakeStatusNeedsInfo, result.Status)
}

func TestIntakeResultValidate(t *testing.T) {
	valid := &IntakeResult{Status: IntakeStatusComplete}
	require.NoError(t, valid.Validate())

	badStatus := &IntakeResult{Status: "unknown"}
	require.Error(t, badStatus.Validate())

	badConfidence := &IntakeResult{
		Status:     IntakeStatusNeedsInfo,
		Confidence: IntakeConfidence{Budget: 1.5},
	}
	require.Error(t, badConfidence.Validate())
}
