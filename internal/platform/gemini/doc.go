// Package gemini provides implementations of the generation and embedding
// provider interfaces using Google's Gemini API.
package gemini
