package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Turn is one prior exchange forwarded to the relay as conversation context.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History converts the session's messages into relay turns.
func (s *ChatSession) History() []Turn {
	turns := make([]Turn, len(s.Messages))
	for i, m := range s.Messages {
		turns[i] = Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}
