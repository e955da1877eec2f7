// Package generation defines the boundary to external reasoning providers.
// It abstracts the details of LLM API integration (Gemini), allowing the
// analysis and knowledge services to request generated text without
// coupling to a specific external service.
package generation
