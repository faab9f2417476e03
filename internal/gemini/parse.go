package gemini

import "strings"

// stripCodeFence removes ```json ... ``` wrappers that models love to add
// even when structured output is requested.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence line.
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		// Remove closing fence.
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// splitList is the lenient fallback for list-shaped responses: split raw
// text on commas and newlines, trim bullets and whitespace, drop empties.
func splitList(raw string) []string {
	raw = stripCodeFence(raw)
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	var out []string
	for _, f := range fields {
		f = strings.Trim(f, " \t\"'-*•[]")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
