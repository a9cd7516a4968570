package models

import "time"

// Conversation представляет переписку двух пользователей
type Conversation struct {
	ID             string    `json:"id" yaml:"id"`
	ParticipantIDs []string  `json:"participant_ids" yaml:"participant_ids"`
	Messages       []Message `json:"messages" yaml:"messages"`
}

// Message представляет сообщение в переписке
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	SenderID  string    `json:"sender_id" yaml:"sender_id"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Clone возвращает копию переписки
func (c Conversation) Clone() Conversation {
	out := c
	out.ParticipantIDs = cloneSlice(c.ParticipantIDs)
	out.Messages = cloneSlice(c.Messages)
	return out
}

// HasParticipant проверяет участие пользователя в переписке
func (c Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Counterpart возвращает ID собеседника или пустую строку
func (c Conversation) Counterpart(userID string) string {
	for _, id := range c.ParticipantIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

// LastMessage возвращает последнее сообщение, если оно есть
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
