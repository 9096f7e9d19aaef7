package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
	"github.com/sahilm/fuzzy"
)

// Apply applies a JMESPath expression to a JSON document and returns the
// indented result
func Apply(body string, expression string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return body, nil
	}

	var data interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := search(data, expression)
	if err != nil {
		return "", err
	}

	// Handle null result
	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// Rows applies a JMESPath expression to a result set treated as one JSON
// array. An array result yields one row per element; any other result
// yields a single row.
func Rows(rows []json.RawMessage, expression string) ([]json.RawMessage, error) {
	if strings.TrimSpace(expression) == "" {
		return rows, nil
	}

	data := make([]interface{}, 0, len(rows))
	for i, row := range rows {
		var v interface{}
		if err := json.Unmarshal(row, &v); err != nil {
			return nil, fmt.Errorf("row %d: invalid JSON: %w", i, err)
		}
		data = append(data, v)
	}

	result, err := search(data, expression)
	if err != nil {
		return nil, err
	}

	items, ok := result.([]interface{})
	if !ok {
		items = []interface{}{result}
	}

	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func search(data interface{}, expression string) (interface{}, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// Fuzzy returns the indices of names matching pattern, best match first.
// An empty pattern matches every name in order.
func Fuzzy(pattern string, names []string) []int {
	if pattern == "" {
		indices := make([]int, len(names))
		for i := range names {
			indices[i] = i
		}
		return indices
	}

	matches := fuzzy.Find(pattern, names)
	indices := make([]int, len(matches))
	for i, m := range matches {
		indices[i] = m.Index
	}
	return indices
}
