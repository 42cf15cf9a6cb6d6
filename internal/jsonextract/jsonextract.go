// Package jsonextract decodes JSON payloads out of raw model responses.
//
// Models are instructed to answer with bare JSON, but some wrap the payload
// in a markdown code fence anyway. This package tolerates that: a leading
// ```json or ``` fence and a trailing ``` fence are stripped before
// decoding. No schema validation happens here; callers own the shape of the
// decoded value.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StripFences removes a surrounding markdown code fence from the trimmed
// input, if present. Input without fences is returned trimmed and otherwise
// untouched.
func StripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// Decode strips fences from raw and unmarshals the remainder into v.
func Decode(raw string, v any) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return errors.New("empty model response")
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}

	return nil
}
