// Package domain contains the core types of the AI analysis server:
// analysis results, knowledge candidates and evaluation decisions,
// transcription payloads, and the error codes shared across the API
// surface and the background services.
package domain
