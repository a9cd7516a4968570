package chat

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/metrics"
	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/services"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

// ChatService представляет сервис для работы с чатами
type ChatService struct {
	store      *store.Store
	jwtService *utils.JWTService
	metrics    *metrics.Metrics
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(st *store.Store, jwtService *utils.JWTService, m *metrics.Metrics) *ChatService {
	return &ChatService{
		store:      st,
		jwtService: jwtService,
		metrics:    m,
	}
}

// chatSummary элемент списка чатов
type chatSummary struct {
	ID           string               `json:"id"`
	Participant  services.UserSummary `json:"participant"`
	LastMessage  *models.Message      `json:"last_message"`
	MessageCount int                  `json:"message_count"`
}

// GetChats возвращает чаты пользователя, самые свежие первыми
func (s *ChatService) GetChats(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	state := s.store.Snapshot()
	conversations := store.ConversationsFor(state, userID, c.Query("search"))

	chats := make([]chatSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := chatSummary{
			ID:           conv.ID,
			Participant:  services.Summarize(state, conv.Counterpart(userID)),
			MessageCount: len(conv.Messages),
		}
		if last, ok := conv.LastMessage(); ok {
			summary.LastMessage = &last
		}
		chats = append(chats, summary)
	}

	return c.JSON(fiber.Map{
		"chats": chats,
		"count": len(chats),
	})
}

// CreateChat открывает чат с пользователем или возвращает существующий
func (s *ChatService) CreateChat(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var requestData struct {
		ReceiverID string `json:"receiver_id"`
		Message    string `json:"message,omitempty"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка чтения тела запроса: %v", err)
		return services.BadRequest(c, "Invalid request")
	}

	if requestData.ReceiverID == "" {
		return services.BadRequest(c, "Receiver is required")
	}
	if requestData.ReceiverID == userID {
		return services.BadRequest(c, "You cannot start a chat with yourself")
	}

	conv, isNew, err := s.store.StartConversation(userID, requestData.ReceiverID)
	if err != nil {
		return services.StoreError(c, err, "Receiver not found")
	}

	// Первое сообщение можно передать сразу при создании чата
	if text := strings.TrimSpace(requestData.Message); text != "" {
		if _, err := s.appendMessage(conv.ID, userID, text); err != nil {
			return services.StoreError(c, err, "Failed to send message")
		}
	}

	status := fiber.StatusOK
	if isNew {
		status = fiber.StatusCreated
		log.Printf("Создан чат %s между %s и %s", conv.ID, userID, requestData.ReceiverID)
	}
	return c.Status(status).JSON(fiber.Map{
		"chat_id": conv.ID,
		"is_new":  isNew,
		"success": true,
	})
}

// GetChatMessages возвращает сообщения конкретного чата
func (s *ChatService) GetChatMessages(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	conv, err := s.store.Conversation(c.Params("id"))
	if err != nil {
		return services.StoreError(c, err, "Chat not found")
	}
	if !conv.HasParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this chat"})
	}

	return c.JSON(fiber.Map{
		"chat_id":     conv.ID,
		"participant": services.Summarize(s.store.Snapshot(), conv.Counterpart(userID)),
		"messages":    conv.Messages,
	})
}

// SendMessage отправляет сообщение в чат
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	chatID := c.Params("id")

	var requestData struct {
		Text string `json:"text"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		return services.BadRequest(c, "Invalid request")
	}

	text := strings.TrimSpace(requestData.Text)
	if text == "" {
		return services.BadRequest(c, "Message text cannot be empty")
	}

	conv, err := s.store.Conversation(chatID)
	if err != nil {
		return services.StoreError(c, err, "Chat not found")
	}
	if !conv.HasParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this chat"})
	}

	msg, err := s.appendMessage(chatID, userID, text)
	if err != nil {
		return services.StoreError(c, err, "Failed to send message")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msg,
	})
}

func (s *ChatService) appendMessage(chatID, senderID, text string) (models.Message, error) {
	msg := models.Message{
		ID:        s.store.NewID("msg"),
		SenderID:  senderID,
		Text:      text,
		Timestamp: s.store.Now(),
	}
	if err := s.store.AppendMessage(chatID, msg); err != nil {
		return models.Message{}, err
	}
	s.metrics.MessagesSent.Inc()
	return msg, nil
}
