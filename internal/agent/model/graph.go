package model

// AppState stores per-invocation state for the generation graph.
// It is registered via compose.WithGenLocalState and only touched inside
// state handlers or compose.ProcessState.
type AppState struct {
	SessionID    string
	Language     Language
	TotalCostUSD float64
}

// GenerationInput is one free-form question plus the conversation so far.
type GenerationInput struct {
	SessionID string   `json:"session_id"`
	Query     string   `json:"query"`
	Language  Language `json:"language,omitempty"`
	History   []Turn   `json:"history,omitempty"`
}
