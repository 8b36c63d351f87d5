package service

import (
	"encoding/json"
	"strings"
)

// extractJSON pulls the first JSON object out of a model response,
// tolerating markdown fences and surrounding prose, and unmarshals it
// into v. Malformed output is treated identically to a call failure by
// every caller.
func extractJSON(raw string, v interface{}) error {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	return json.Unmarshal([]byte(s), v)
}
