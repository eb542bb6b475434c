package jsonutils

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reFence         = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	reObject        = regexp.MustCompile(`(?s)\{.*\}`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSON pulls a JSON object out of model output. Some providers wrap
// tool arguments in a ```json fence or surround them with prose.
//
// Priority:
// 1. fenced block
// 2. first { to last }
func ExtractJSON(input string) string {
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1
		}
		return r
	}, input))

	if match := reFence.FindStringSubmatch(input); len(match) > 1 {
		input = strings.TrimSpace(match[1])
	} else if match := reObject.FindString(input); match != "" {
		input = strings.TrimSpace(match)
	}

	input = reTrailingComma.ReplaceAllString(input, "$1")
	return strings.TrimSpace(input)
}

// ParseObject decodes a JSON object, retrying once on the extracted form.
// An empty input is an empty object.
func ParseObject(input string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(input) == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(input), &out)
	if err == nil {
		return out, nil
	}
	out = map[string]any{}
	if err2 := json.Unmarshal([]byte(ExtractJSON(input)), &out); err2 != nil {
		return nil, err
	}
	return out, nil
}

// ToJSON serializes v compactly. Returns "" if serialization fails.
func ToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// ToIndentedJSON is ToJSON with 2-space indentation.
func ToIndentedJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
