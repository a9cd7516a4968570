package models

import "time"

// NotificationType тип уведомления
type NotificationType string

const (
	NotificationRequest  NotificationType = "request"
	NotificationFeedback NotificationType = "feedback"
)

// Notification представляет уведомление для пользователя
type Notification struct {
	ID          string           `json:"id" yaml:"id"`
	UserID      string           `json:"user_id" yaml:"user_id"`
	FromUserID  string           `json:"from_user_id" yaml:"from_user_id"`
	Type        NotificationType `json:"type" yaml:"type"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Link        string           `json:"link" yaml:"link"`
	Read        bool             `json:"read" yaml:"read"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at"`
}

// Toast кратковременное подтверждение для клиента
type Toast struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     string    `json:"variant,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
