package models

import "time"

// TranscriptTurn is one persisted turn of a conversation.
type TranscriptTurn struct {
	ConversationID string    `json:"conversation_id"`
	Seq            int       `json:"seq"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Cached         bool      `json:"cached"`
	CreatedAt      time.Time `json:"created_at"`
}

// TranscriptStats summarizes the transcript store.
type TranscriptStats struct {
	Conversations int64 `json:"conversations"`
	Turns         int64 `json:"turns"`
}
