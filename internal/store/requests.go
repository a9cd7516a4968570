package store

import (
	"fmt"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
)

// StatusChange результат смены статуса обмена.
type StatusChange struct {
	Request models.SwapRequest
	// Changed false, если статус уже был установлен
	Changed bool
	// ConversationID переписка участников, открытая при принятии обмена
	ConversationID string
}

// Request возвращает предложение обмена по ID.
func (s *Store) Request(id string) (models.SwapRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.requestIndex(id)
	if i < 0 {
		return models.SwapRequest{}, fmt.Errorf("store/Request: %w", ErrNotFound)
	}
	return s.state.Requests[i].Clone(), nil
}

// AddSwapRequest добавляет предложение обмена, создаёт уведомление получателю
// и отправляет ему toast. Оба пользователя должны существовать, такое же
// ожидающее предложение не должно существовать.
func (s *Store) AddSwapRequest(req models.SwapRequest) (models.SwapRequest, models.Notification, error) {
	const op = "store/AddSwapRequest"

	s.mu.Lock()

	fromIdx, toIdx := s.userIndex(req.FromUserID), s.userIndex(req.ToUserID)
	if fromIdx < 0 || toIdx < 0 {
		s.mu.Unlock()
		return models.SwapRequest{}, models.Notification{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if s.hasPendingDuplicate(req) {
		s.mu.Unlock()
		return models.SwapRequest{}, models.Notification{}, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}

	now := s.now()
	if req.ID == "" {
		req.ID = s.newID("req")
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}

	fromName := s.state.Users[fromIdx].Name

	notif := models.Notification{
		ID:          s.newID("notif"),
		UserID:      req.ToUserID,
		FromUserID:  req.FromUserID,
		Type:        models.NotificationRequest,
		Title:       "New Swap Request",
		Description: fmt.Sprintf("%s wants to swap skills.", fromName),
		Link:        "/requests",
		Read:        false,
		CreatedAt:   now,
	}

	s.state.Requests = append(s.state.Requests, req.Clone())
	s.state.Notifications = append(s.state.Notifications, notif)
	s.state.Version++
	s.mu.Unlock()

	who := fromName
	if who == "" {
		who = "Someone"
	}
	s.notify(req.ToUserID, models.Toast{
		Title:       "New Swap Request!",
		Description: fmt.Sprintf("%s wants to swap skills with you.", who),
	})

	return req, notif, nil
}

// UpdateRequestStatus меняет статус обмена. Повторная установка того же статуса
// ничего не меняет. При принятии обмена открывается переписка участников.
func (s *Store) UpdateRequestStatus(requestID string, status models.SwapStatus) (StatusChange, error) {
	const op = "store/UpdateRequestStatus"

	if !status.IsValid() {
		return StatusChange{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.requestIndex(requestID)
	if i < 0 {
		return StatusChange{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	req := &s.state.Requests[i]
	if req.Status == status {
		return StatusChange{Request: req.Clone()}, nil
	}
	if !req.Status.CanTransitionTo(status) {
		return StatusChange{}, fmt.Errorf("%s: %s -> %s: %w", op, req.Status, status, ErrInvalidTransition)
	}

	req.Status = status
	req.UpdatedAt = s.now()
	s.state.Version++

	change := StatusChange{Request: req.Clone(), Changed: true}

	if status == models.StatusAccepted &&
		s.userIndex(req.FromUserID) >= 0 && s.userIndex(req.ToUserID) >= 0 {
		c, ok := s.findConversation(req.FromUserID, req.ToUserID)
		if ok {
			change.ConversationID = c.ID
		} else {
			change.ConversationID = s.createConversation(req.FromUserID, req.ToUserID).ID
		}
	}

	return change, nil
}

// AddFeedback сохраняет отзыв участника завершённого обмена в профиль второго
// участника и создаёт ему уведомление. Один отзыв от участника на обмен.
func (s *Store) AddFeedback(requestID, raterID string, rating int, comment string) (models.Feedback, models.Notification, error) {
	const op = "store/AddFeedback"

	if rating < 1 || rating > 5 {
		return models.Feedback{}, models.Notification{}, fmt.Errorf("%s: rating %d: %w", op, rating, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.requestIndex(requestID)
	if i < 0 {
		return models.Feedback{}, models.Notification{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	req := &s.state.Requests[i]

	if !req.IsParticipant(raterID) {
		return models.Feedback{}, models.Notification{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if req.Status != models.StatusCompleted {
		return models.Feedback{}, models.Notification{}, fmt.Errorf("%s: status %s: %w", op, req.Status, ErrInvalidTransition)
	}
	for _, id := range req.FeedbackFrom {
		if id == raterID {
			return models.Feedback{}, models.Notification{}, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
	}

	raterIdx := s.userIndex(raterID)
	ratedID := req.Counterpart(raterID)
	ratedIdx := s.userIndex(ratedID)
	if raterIdx < 0 || ratedIdx < 0 {
		return models.Feedback{}, models.Notification{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	raterName := s.state.Users[raterIdx].Name
	fb := models.Feedback{Rating: rating, Comment: comment, From: raterName}

	rated := &s.state.Users[ratedIdx]
	rated.Feedback = append(rated.Feedback, fb)
	if s.state.CurrentUser.ID == rated.ID {
		s.state.CurrentUser = rated.Clone()
	}
	req.FeedbackFrom = append(req.FeedbackFrom, raterID)

	notif := models.Notification{
		ID:          s.newID("notif"),
		UserID:      ratedID,
		FromUserID:  raterID,
		Type:        models.NotificationFeedback,
		Title:       "New Feedback",
		Description: fmt.Sprintf("%s left you a %d-star review.", raterName, rating),
		Link:        "/profile",
		CreatedAt:   s.now(),
	}
	s.state.Notifications = append(s.state.Notifications, notif)
	s.state.Version++

	return fb, notif, nil
}

// hasPendingDuplicate есть ли ожидающее предложение с теми же участниками и навыками
func (s *Store) hasPendingDuplicate(req models.SwapRequest) bool {
	for _, r := range s.state.Requests {
		if r.Status == models.StatusPending &&
			r.FromUserID == req.FromUserID && r.ToUserID == req.ToUserID &&
			r.FromUserSkillName == req.FromUserSkillName && r.ToUserSkillName == req.ToUserSkillName {
			return true
		}
	}
	return false
}
