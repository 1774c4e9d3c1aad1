package model

import "context"

// Role tags the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of a conversation session.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// DefaultMaxTurns bounds a session: ten user/assistant exchanges.
const DefaultMaxTurns = 20

type SessionStore interface {
	// Append adds turns to the end of the session and then drops the oldest
	// entries until at most maxTurns remain.
	Append(ctx context.Context, sessionID string, maxTurns int, turns ...Turn) error

	// Load returns the stored turns, oldest first. Unknown sessions are empty.
	Load(ctx context.Context, sessionID string) ([]Turn, error)

	// Clear removes the session.
	Clear(ctx context.Context, sessionID string) error
}

// SubscriberStore persists the append-only subscriber list.
type SubscriberStore interface {
	// Load returns every subscriber in order of first appearance.
	Load(ctx context.Context) ([]string, error)

	// Add appends id unless it is already stored and reports whether it was
	// appended. The check and the append are one atomic step in the backend.
	Add(ctx context.Context, id string) (bool, error)
}
