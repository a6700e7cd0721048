package agents

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 date format used in every agent payload.
const DateLayout = "2006-01-02"

// parseAgentJSON strips markdown fencing from raw model output and decodes
// the remainder into v. The caller routes any error to its fallback.
func parseAgentJSON(content string, v any) error {
	cleaned := StripMarkdownFence(content)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse agent response: %w", err)
	}
	return nil
}

// nowOrDefault guards agent constructors against a nil clock.
func nowOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
