package model

import (
	"time"

	"travel_dialogue_engine/src/dialogue"
)

// ----------------------------------------------------
// ================ Session ================
// SessionSnapshot is the persisted per-conversation working set.
//
// Redis key layout:
//   session:<conversation_id>      -> SessionSnapshot (JSON, TTL-bound)
//   conversation:<conversation_id> -> chat history ([]*schema.Message)
type SessionSnapshot struct {
	ConversationID    string          `json:"conversation_id"`
	CustomerID        string          `json:"customer_id,omitempty"`
	State             *dialogue.State `json:"state"`
	PendingUtterances []string        `json:"pending_utterances,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewSessionSnapshot starts a fresh session for one conversation.
func NewSessionSnapshot(conversationID string) *SessionSnapshot {
	return &SessionSnapshot{
		ConversationID: conversationID,
		State:          dialogue.NewState(),
		UpdatedAt:      time.Now(),
	}
}
