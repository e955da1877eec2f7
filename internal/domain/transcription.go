package domain

// TranscriptionSegment is one timed slice of a transcript.
type TranscriptionSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult is the outcome of transcribing one audio file.
type TranscriptionResult struct {
	Text     string                 `json:"text"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
	Language string                 `json:"language,omitempty"`
}
