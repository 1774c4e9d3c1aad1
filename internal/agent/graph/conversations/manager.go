package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/swasthya-bot/server/internal/agent/model"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

// SessionManager bounds each sender's conversation to the newest maxTurns
// turns. Only the generative path reads or writes sessions.
type SessionManager struct {
	store    model.SessionStore
	maxTurns int
}

func NewSessionManager(store model.SessionStore, config model.ConversationConfig) *SessionManager {
	maxTurns := config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = model.DefaultMaxTurns
	}
	return &SessionManager{store: store, maxTurns: maxTurns}
}

// MaxTurns is the window cap.
func (m *SessionManager) MaxTurns() int { return m.maxTurns }

// Append adds one turn and evicts from the front past the cap.
func (m *SessionManager) Append(ctx context.Context, sessionID string, role model.Role, text string) error {
	return m.store.Append(ctx, sessionID, m.maxTurns, model.Turn{Role: role, Text: text})
}

// AppendExchange stores a user message and the assistant reply together.
func (m *SessionManager) AppendExchange(ctx context.Context, sessionID, query, answer string) error {
	return m.store.Append(ctx, sessionID, m.maxTurns,
		model.Turn{Role: model.RoleUser, Text: query},
		model.Turn{Role: model.RoleAssistant, Text: answer},
	)
}

// Window returns the most recent turns, oldest first. A store failure yields
// an empty window.
func (m *SessionManager) Window(ctx context.Context, sessionID string) []model.Turn {
	turns, err := m.store.Load(ctx, sessionID)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("conversation unavailable, using empty history")
		return []model.Turn{}
	}
	return trimTail(turns, m.maxTurns)
}

// Clear empties the session.
func (m *SessionManager) Clear(ctx context.Context, sessionID string) error {
	return m.store.Clear(ctx, sessionID)
}

// ToMessages converts turns into chat messages for the model. Empty turns are
// skipped.
func ToMessages(turns []model.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		if t.Text == "" {
			continue
		}
		switch t.Role {
		case model.RoleUser:
			msgs = append(msgs, schema.UserMessage(t.Text))
		case model.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Text, nil))
		}
	}
	return msgs
}

// ====================== Helper function ======================
func trimTail(turns []model.Turn, maxTurns int) []model.Turn {
	if len(turns) <= maxTurns {
		result := make([]model.Turn, len(turns))
		copy(result, turns)
		return result
	}
	source := turns[len(turns)-maxTurns:]
	result := make([]model.Turn, len(source))
	copy(result, source)
	return result
}
