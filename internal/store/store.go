// Package store хранит каноническое состояние SkillSphere в памяти:
// пользователей, предложения обмена, переписки, уведомления и указатель
// на текущего пользователя. Все мутации проходят через методы Store,
// чтение отдаёт глубокие копии.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
)

var (
	// ErrNotFound - сущность с указанным ID отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument - некорректные входные данные.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidTransition - недопустимый переход статуса обмена.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyExists - повторная операция, которая допускается один раз.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden - пользователь не участвует в сущности.
	ErrForbidden = errors.New("forbidden")
)

// Notifier доставляет кратковременные подтверждения (toast) пользователю.
type Notifier interface {
	Notify(userID string, toast models.Toast)
}

// State снимок состояния хранилища.
type State struct {
	Users         []models.User         `json:"users"`
	Requests      []models.SwapRequest  `json:"requests"`
	Conversations []models.Conversation `json:"conversations"`
	Notifications []models.Notification `json:"notifications"`
	Accounts      []models.Account      `json:"accounts"`
	CurrentUser   models.User           `json:"current_user"`
	InitialUserID string                `json:"initial_user_id"`
	// Version увеличивается при каждой мутации
	Version uint64 `json:"version"`
}

// Clone возвращает глубокую копию снимка.
func (s State) Clone() State {
	out := State{
		Users:         make([]models.User, len(s.Users)),
		Requests:      make([]models.SwapRequest, len(s.Requests)),
		Conversations: make([]models.Conversation, len(s.Conversations)),
		Notifications: make([]models.Notification, len(s.Notifications)),
		Accounts:      make([]models.Account, len(s.Accounts)),
		CurrentUser:   s.CurrentUser.Clone(),
		InitialUserID: s.InitialUserID,
		Version:       s.Version,
	}
	copy(out.Notifications, s.Notifications)
	copy(out.Accounts, s.Accounts)
	for i, u := range s.Users {
		out.Users[i] = u.Clone()
	}
	for i, r := range s.Requests {
		out.Requests[i] = r.Clone()
	}
	for i, c := range s.Conversations {
		out.Conversations[i] = c.Clone()
	}
	return out
}

// Option настраивает Store.
type Option func(*Store)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithNotifier задаёт получателя toast-событий.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// Store - хранилище доменного состояния.
type Store struct {
	mu       sync.RWMutex
	state    State
	now      func() time.Time
	newID    func(prefix string) string
	notifier Notifier
}

// New создаёт хранилище из начального состояния. Текущим пользователем
// становится InitialUserID, если он задан и существует.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		state: initial.Clone(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.state.CurrentUser.ID == "" && s.state.InitialUserID != "" {
		if i := s.userIndex(s.state.InitialUserID); i >= 0 {
			s.state.CurrentUser = s.state.Users[i].Clone()
		}
	}

	return s
}

// NewID возвращает новый идентификатор с префиксом.
func (s *Store) NewID(prefix string) string {
	return s.newID(prefix)
}

// Now текущее время хранилища.
func (s *Store) Now() time.Time {
	return s.now()
}

// Snapshot возвращает копию текущего состояния.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Restore заменяет состояние целиком (загрузка снапшота).
func (s *Store) Restore(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
}

// Version текущая версия состояния.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Version
}

// CurrentUser возвращает активного пользователя.
func (s *Store) CurrentUser() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentUser.Clone()
}

// User возвращает пользователя по ID.
func (s *Store) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.userIndex(id)
	if i < 0 {
		return models.User{}, fmt.Errorf("store/User: %w", ErrNotFound)
	}
	return s.state.Users[i].Clone(), nil
}

// SetCurrentUser заменяет активного пользователя. Если пользователь с таким ID
// уже есть в коллекции, его запись заменяется целиком.
func (s *Store) SetCurrentUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.userIndex(user.ID); i >= 0 {
		s.state.Users[i] = user.Clone()
	}
	s.state.CurrentUser = user.Clone()
	s.state.Version++
}

// UpdateProfile применяет изменения к профилю пользователя и делает его
// активным. Чтение, apply и запись выполняются под одной блокировкой.
// Отзывы и ID меняются только через свои операции, apply их не затрагивает.
func (s *Store) UpdateProfile(userID string, apply func(models.User) (models.User, error)) (models.User, error) {
	const op = "store/UpdateProfile"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(userID)
	if i < 0 {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	current := s.state.Users[i]
	updated, err := apply(current.Clone())
	if err != nil {
		return models.User{}, err
	}
	updated.ID = current.ID
	updated.Feedback = current.Clone().Feedback

	s.state.Users[i] = updated.Clone()
	s.state.CurrentUser = updated.Clone()
	s.state.Version++
	return updated, nil
}

// ResetCurrentUser возвращает активным начального пользователя (выход из аккаунта).
func (s *Store) ResetCurrentUser() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.userIndex(s.state.InitialUserID); i >= 0 {
		s.state.CurrentUser = s.state.Users[i].Clone()
		s.state.Version++
	}
	return s.state.CurrentUser.Clone()
}

// AddUser добавляет пользователя без проверки уникальности.
func (s *Store) AddUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Users = append(s.state.Users, user.Clone())
	s.state.Version++
}

// AppendMessage добавляет сообщение в переписку.
func (s *Store) AppendMessage(conversationID string, msg models.Message) error {
	const op = "store/AppendMessage"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.conversationIndex(conversationID)
	if i < 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	c := &s.state.Conversations[i]
	c.Messages = append(c.Messages, msg)
	s.state.Version++
	return nil
}

// StartConversation возвращает существующую переписку двух пользователей
// или создаёт новую пустую.
func (s *Store) StartConversation(userA, userB string) (models.Conversation, bool, error) {
	const op = "store/StartConversation"

	if userA == "" || userB == "" || userA == userB {
		return models.Conversation{}, false, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(userA) < 0 || s.userIndex(userB) < 0 {
		return models.Conversation{}, false, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if c, ok := s.findConversation(userA, userB); ok {
		return c.Clone(), false, nil
	}

	c := s.createConversation(userA, userB)
	return c.Clone(), true, nil
}

// Conversation возвращает переписку по ID.
func (s *Store) Conversation(id string) (models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.conversationIndex(id)
	if i < 0 {
		return models.Conversation{}, fmt.Errorf("store/Conversation: %w", ErrNotFound)
	}
	return s.state.Conversations[i].Clone(), nil
}

// MarkNotificationRead помечает уведомление прочитанным.
func (s *Store) MarkNotificationRead(notificationID string) error {
	const op = "store/MarkNotificationRead"

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Notifications {
		if s.state.Notifications[i].ID == notificationID {
			if !s.state.Notifications[i].Read {
				s.state.Notifications[i].Read = true
				s.state.Version++
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrNotFound)
}

// Notification возвращает уведомление по ID.
func (s *Store) Notification(id string) (models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.state.Notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Notification{}, fmt.Errorf("store/Notification: %w", ErrNotFound)
}

func (s *Store) findConversation(userA, userB string) (*models.Conversation, bool) {
	for i := range s.state.Conversations {
		c := &s.state.Conversations[i]
		if len(c.ParticipantIDs) == 2 && c.HasParticipant(userA) && c.HasParticipant(userB) {
			return c, true
		}
	}
	return nil, false
}

func (s *Store) createConversation(userA, userB string) models.Conversation {
	c := models.Conversation{
		ID:             s.newID("convo"),
		ParticipantIDs: []string{userA, userB},
		Messages:       []models.Message{},
	}
	s.state.Conversations = append(s.state.Conversations, c)
	s.state.Version++
	return c
}

func (s *Store) userIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.state.Users {
		if s.state.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) conversationIndex(id string) int {
	for i := range s.state.Conversations {
		if s.state.Conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) requestIndex(id string) int {
	for i := range s.state.Requests {
		if s.state.Requests[i].ID == id {
			return i
		}
	}
	return -1
}

// Notify отправляет toast пользователю через подключённый Notifier.
func (s *Store) Notify(userID string, toast models.Toast) {
	s.notify(userID, toast)
}

func (s *Store) notify(userID string, toast models.Toast) {
	if s.notifier == nil || userID == "" {
		return
	}
	if toast.CreatedAt.IsZero() {
		toast.CreatedAt = s.now()
	}
	s.notifier.Notify(userID, toast)
}
