package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageHistory is the ordered message log of a conversation, stored as a
// JSONB column.
type MessageHistory []Message

func (h MessageHistory) Value() (driver.Value, error) {
	if h == nil {
		h = MessageHistory{}
	}
	return json.Marshal(h)
}

func (h *MessageHistory) Scan(src any) error {
	if src == nil {
		*h = MessageHistory{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported message_history source type %T", src)
	}
	return json.Unmarshal(raw, h)
}

// Last returns the trailing n messages in order.
func (h MessageHistory) Last(n int) MessageHistory {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Conversation is keyed by an opaque session id, optionally tied to a user.
// Anonymous sessions are allowed.
type Conversation struct {
	ID        string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    *string `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
	SessionID string  `gorm:"column:session_id;type:varchar(100);uniqueIndex:idx_conversations_session" json:"session_id"`

	MessageHistory MessageHistory `gorm:"column:message_history;type:jsonb" json:"message_history"`

	LastUserMessage string `gorm:"column:last_user_message;type:text" json:"last_user_message"`
	LastAIResponse  string `gorm:"column:last_ai_response;type:text" json:"last_ai_response"`

	ExtractedPreferences datatypes.JSON `gorm:"column:extracted_preferences;type:jsonb" json:"extracted_preferences"`
	SearchContext        datatypes.JSON `gorm:"column:search_context;type:jsonb" json:"search_context"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }
