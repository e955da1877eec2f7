// Package redact provides utilities for redacting sensitive information from
// strings before they are logged. Provider errors can embed API keys, request
// URLs, and file paths; this package strips those so that raw provider
// failures can be logged without leaking credentials.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
	RedactedHostPlaceholder = "[REDACTED_HOST]"
	RedactedPathPlaceholder = "[REDACTED_PATH]"
)

// Precompiled regex patterns
var (
	// API keys and tokens, including Google-style AIza keys
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)
	googleKeyRegex = regexp.MustCompile(`AIza[0-9A-Za-z_-]{10,}`)
	bearerRegex    = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]+`)

	// Request targets
	urlRegex      = regexp.MustCompile(`https?://[^\s"']+`)
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	// Local file paths
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	patterns = []*regexp.Regexp{
		apiKeyRegex, googleKeyRegex, bearerRegex, urlRegex, hostPortRegex, unixPathRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		apiKeyRegex:    RedactedKeyPlaceholder,
		googleKeyRegex: RedactedKeyPlaceholder,
		bearerRegex:    RedactedKeyPlaceholder,
		urlRegex:       RedactedHostPlaceholder,
		hostPortRegex:  RedactedHostPlaceholder,
		unixPathRegex:  RedactedPathPlaceholder,
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		result = pattern.ReplaceAllString(result, patternPlaceholders[pattern])
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
