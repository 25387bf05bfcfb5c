// Package llm contains the model-provider gateway and the adapters behind it.
// Providers differ in wire formats and failure modes; everything above this
// package sees a single Complete capability returning normalized JSON.
package llm

import (
	"encoding/json"
	"strings"
)

// Normalize converts a raw model reply into parsed JSON. Models frequently
// wrap their output in a fenced code block; the fence lines are stripped
// before parsing. The boolean is false when no valid JSON document remains,
// which the gateway treats the same as a transport failure.
//
// Normalizing an already-clean JSON document returns it unchanged.
func Normalize(raw string) (json.RawMessage, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, false
	}

	if strings.HasPrefix(cleaned, "```") {
		lines := strings.Split(cleaned, "\n")
		if len(lines) < 2 {
			return nil, false
		}
		lines = lines[1:]
		if strings.TrimSpace(lines[len(lines)-1]) == "```" {
			lines = lines[:len(lines)-1]
		}
		cleaned = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	if cleaned == "" || !json.Valid([]byte(cleaned)) {
		return nil, false
	}
	return json.RawMessage(cleaned), true
}
