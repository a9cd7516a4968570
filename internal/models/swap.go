package models

import "time"

// SwapStatus статус предложения обмена навыками
type SwapStatus string

const (
	StatusPending   SwapStatus = "pending"
	StatusAccepted  SwapStatus = "accepted"
	StatusRejected  SwapStatus = "rejected"
	StatusCompleted SwapStatus = "completed"
	StatusCanceled  SwapStatus = "canceled"
)

// IsValid проверяет, что статус входит в допустимый набор
func (s SwapStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода:
// pending -> accepted|rejected|canceled, accepted -> completed.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusAccepted || next == StatusRejected || next == StatusCanceled
	case StatusAccepted:
		return next == StatusCompleted
	}
	return false
}

// SwapRequest представляет предложение обмена навыками
type SwapRequest struct {
	ID                string     `json:"id" yaml:"id"`
	FromUserID        string     `json:"from_user_id" yaml:"from_user_id"`
	ToUserID          string     `json:"to_user_id" yaml:"to_user_id"`
	FromUserSkillName string     `json:"from_user_skill_name" yaml:"from_user_skill_name"`
	ToUserSkillName   string     `json:"to_user_skill_name" yaml:"to_user_skill_name"`
	Status            SwapStatus `json:"status" yaml:"status"`
	Message           string     `json:"message,omitempty" yaml:"message,omitempty"`
	ProposedSchedule  string     `json:"proposed_schedule,omitempty" yaml:"proposed_schedule,omitempty"`
	CreatedAt         time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" yaml:"updated_at"`

	// Участники, оставившие отзыв по этому обмену
	FeedbackFrom []string `json:"feedback_from,omitempty" yaml:"feedback_from,omitempty"`
}

// Clone возвращает копию запроса
func (r SwapRequest) Clone() SwapRequest {
	out := r
	out.FeedbackFrom = cloneSlice(r.FeedbackFrom)
	return out
}

// IsParticipant проверяет, участвует ли пользователь в обмене
func (r SwapRequest) IsParticipant(userID string) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// Counterpart возвращает ID второго участника обмена
func (r SwapRequest) Counterpart(userID string) string {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	return r.FromUserID
}
