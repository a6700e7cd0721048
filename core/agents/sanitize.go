package agents

import (
	"strings"
)

// StripMarkdownFence removes a single leading/trailing markdown code fence
// (optionally tagged "json") plus surrounding whitespace from model output.
// Inner content is left untouched, so the result is stable under repeated
// application.
func StripMarkdownFence(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = response[len("```json"):]
	} else if strings.HasPrefix(response, "```") {
		response = response[len("```"):]
	}

	if strings.HasSuffix(response, "```") {
		response = response[:len(response)-len("```")]
	}

	return strings.TrimSpace(response)
}
