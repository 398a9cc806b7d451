package handler

import (
	"encoding/json"
	"net/http"
)

// decodeBody decodes the request body into a generic map for validation.
// Handlers extract typed values only after the schema has passed, so the
// helpers below may assume the checked JSON types.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func bodyString(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func bodyOptString(body map[string]any, key string) *string {
	s, ok := body[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func bodyInt(body map[string]any, key string) int {
	f, _ := body[key].(float64)
	return int(f)
}

func bodyOptInt(body map[string]any, key string) *int {
	f, ok := body[key].(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func bodyOptBool(body map[string]any, key string) *bool {
	b, ok := body[key].(bool)
	if !ok {
		return nil
	}
	return &b
}

func bodyStringSlice(body map[string]any, key string) []string {
	arr, ok := body[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
