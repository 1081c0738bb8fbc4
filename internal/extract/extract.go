// Package extract pulls a single plain-text transcript string out of
// heterogeneous JSON-like payloads. Upstream recorders have shipped the
// transcript under several field names and nesting shapes over time, so
// the search is a depth-first walk rather than a fixed path.
package extract

import (
	"encoding/json"
	"sort"
	"strings"
)

// candidateFields are checked in this order on every mapping node.
var candidateFields = []string{"text", "transcript", "content", "transcription"}

// Text returns the first non-empty trimmed string found in node, or ""
// when the tree carries no usable text. It never panics on unexpected
// types; anything unrecognized is skipped.
func Text(node any) string {
	switch v := node.(type) {
	case map[string]any:
		for _, field := range candidateFields {
			if s, ok := v[field].(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			}
		}
		// Stable order keeps rendered output byte-identical across runs.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if found := Text(v[k]); found != "" {
				return found
			}
		}
	case []any:
		for _, item := range v {
			if found := Text(item); found != "" {
				return found
			}
		}
	case string:
		return strings.TrimSpace(v)
	}
	return ""
}

// FromRaw extracts text from a raw payload. Valid JSON is walked as a
// tree; anything else is treated as a plain string, since some source
// rows store the transcript bare rather than as a JSON document.
func FromRaw(raw []byte) string {
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return Text(node)
}
