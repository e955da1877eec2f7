package gemini

import "errors"

// Common errors returned by the gemini package
var (
	// ErrEmptyPrompt is returned when a generation call is made with an
	// empty prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrEmptyText is returned when an embedding call is made with no text
	ErrEmptyText = errors.New("text to embed cannot be empty")
)
