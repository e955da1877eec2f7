package generation

import "strings"

// StripCodeFences removes markdown code fences from model output. Models
// frequently wrap JSON answers in ```json ... ``` blocks even when told not
// to; callers should run responses through this before parsing.
func StripCodeFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
