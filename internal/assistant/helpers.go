package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/toon-format/toon-go"

	"github.com/mirahq/academy-crm/internal/domain"
)

// decodeToolArgs decodes a tool call's argument map into the target struct,
// rejecting unknown fields so hallucinated keys surface as errors instead of
// being silently dropped.
func decodeToolArgs(args map[string]any, target any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if err := decoder.Decode(new(any)); err != io.EOF {
		return fmt.Errorf("tool arguments must contain a single JSON object")
	}
	return nil
}

// okResponse builds a successful tool response.
func okResponse(call domain.ToolCall, result map[string]any) domain.ToolResponse {
	return domain.ToolResponse{
		ID:     call.ID,
		Name:   call.Name,
		Result: result,
	}
}

// messageResponse builds a tool response carrying a human-readable message.
func messageResponse(call domain.ToolCall, format string, args ...any) domain.ToolResponse {
	return okResponse(call, map[string]any{"message": fmt.Sprintf(format, args...)})
}

// errResponse builds a tool response whose result is an error payload the
// model can read and recover from.
func errResponse(call domain.ToolCall, code string, err error) domain.ToolResponse {
	return okResponse(call, map[string]any{"error": code, "details": err.Error()})
}

// ambiguousResponse builds the zero-write response for an ambiguous name
// match: a message plus the capped candidate list.
func ambiguousResponse(call domain.ToolCall, kind domain.EntityKind, query string, candidates []domain.Candidate) domain.ToolResponse {
	suggestions := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, map[string]any{"id": c.ID.String(), "name": c.Name})
	}
	return okResponse(call, map[string]any{
		"message":     fmt.Sprintf("Multiple %ss match %q. Ask the user which one they meant.", kind, query),
		"suggestions": suggestions,
	})
}

// notFoundResponse builds the zero-write response for a failed name match.
func notFoundResponse(call domain.ToolCall, kind domain.EntityKind, query string) domain.ToolResponse {
	return messageResponse(call, "No %s matching %q was found.", kind, query)
}

// encodeTable renders a slice of records as a compact TOON table so list
// results stay cheap in model context.
func encodeTable(rows any) (string, error) {
	return toon.MarshalString(rows, toon.WithLengthMarkers(true))
}
