package swap

import (
	"errors"
	"fmt"
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

// SwapService представляет сервис для работы с обменами навыками
type SwapService struct {
	store      *store.Store
	jwtService *utils.JWTService
	metrics    *metrics.Metrics
}

// NewSwapService создает новый экземпляр SwapService
func NewSwapService(st *store.Store, jwtService *utils.JWTService, m *metrics.Metrics) *SwapService {
	return &SwapService{
		store:      st,
		jwtService: jwtService,
		metrics:    m,
	}
}

// requestView предложение обмена с данными участников
type requestView struct {
	models.SwapRequest
	FromUser services.UserSummary `json:"from_user"`
	ToUser   services.UserSummary `json:"to_user"`
}

type createRequest struct {
	ToUserID          string `json:"to_user_id"`
	FromUserSkillName string `json:"from_user_skill_name"`
	ToUserSkillName   string `json:"to_user_skill_name"`
	Message           string `json:"message"`
	ProposedSchedule  string `json:"proposed_schedule"`
}

// CreateRequest создает новое предложение обмена
func (s *SwapService) CreateRequest(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req createRequest
	if err := c.Bind().Body(&req); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return services.BadRequest(c, "Invalid request")
	}

	req.FromUserSkillName = strings.TrimSpace(req.FromUserSkillName)
	req.ToUserSkillName = strings.TrimSpace(req.ToUserSkillName)

	// Проверка обязательных полей
	if req.ToUserID == "" {
		return services.BadRequest(c, "Recipient is required")
	}
	if req.FromUserSkillName == "" || req.ToUserSkillName == "" {
		return services.BadRequest(c, "Please select a skill from both lists.")
	}
	if req.ToUserID == userID {
		return services.BadRequest(c, "You cannot propose a swap to yourself")
	}

	state := s.store.Snapshot()
	from, ok := store.UserByID(state, userID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	to, ok := store.UserByID(state, req.ToUserID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recipient not found"})
	}

	if !from.OffersSkill(req.FromUserSkillName) {
		return services.BadRequest(c, "You can only offer skills from your own profile")
	}
	if !to.OffersSkill(req.ToUserSkillName) {
		return services.BadRequest(c, fmt.Sprintf("%s does not offer this skill", to.Name))
	}

	created, notif, err := s.store.AddSwapRequest(models.SwapRequest{
		FromUserID:        userID,
		ToUserID:          req.ToUserID,
		FromUserSkillName: req.FromUserSkillName,
		ToUserSkillName:   req.ToUserSkillName,
		Message:           strings.TrimSpace(req.Message),
		ProposedSchedule:  strings.TrimSpace(req.ProposedSchedule),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This swap request is already pending"})
	}
	if err != nil {
		return services.StoreError(c, err, "Failed to create swap request")
	}

	s.metrics.SwapRequestsCreated.Inc()
	s.metrics.NotificationsSent.WithLabelValues(string(notif.Type)).Inc()
	s.store.Notify(userID, models.Toast{
		Title:       "Request Sent!",
		Description: fmt.Sprintf("Your swap request has been sent to %s.", to.Name),
	})

	log.Printf("Создано предложение обмена %s: %s -> %s", created.ID, userID, req.ToUserID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request":      created,
		"notification": notif,
	})
}

// ListRequests возвращает входящие и исходящие предложения пользователя
func (s *SwapService) ListRequests(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var statusFilter models.SwapStatus
	if raw := c.Query("status"); raw != "" && raw != "all" {
		statusFilter = models.SwapStatus(strings.ToLower(raw))
		if !statusFilter.IsValid() {
			return services.BadRequest(c, "Invalid status filter")
		}
	}

	state := s.store.Snapshot()

	var list []models.SwapRequest
	switch c.Query("type", "all") {
	case "incoming":
		list = store.IncomingRequests(state, userID)
	case "outgoing":
		list = store.OutgoingRequests(state, userID)
	case "all":
		list = append(store.IncomingRequests(state, userID), store.OutgoingRequests(state, userID)...)
	default:
		return services.BadRequest(c, "Invalid type, expected incoming, outgoing or all")
	}

	views := make([]requestView, 0, len(list))
	for _, r := range list {
		if statusFilter != "" && r.Status != statusFilter {
			continue
		}
		views = append(views, requestView{
			SwapRequest: r,
			FromUser:    services.Summarize(state, r.FromUserID),
			ToUser:      services.Summarize(state, r.ToUserID),
		})
	}

	return c.JSON(fiber.Map{
		"requests":         views,
		"pending_incoming": store.PendingIncomingCount(state, userID),
	})
}

// canSetStatus кто из участников может выставить статус
func canSetStatus(req models.SwapRequest, userID string, status models.SwapStatus) bool {
	switch status {
	case models.StatusAccepted, models.StatusRejected:
		return req.ToUserID == userID
	case models.StatusCanceled:
		return req.FromUserID == userID
	default:
		return req.IsParticipant(userID)
	}
}

// UpdateRequestStatus обновляет статус предложения обмена
func (s *SwapService) UpdateRequestStatus(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	requestID := c.Params("id")

	var body struct {
		Status models.SwapStatus `json:"status"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return services.BadRequest(c, "Invalid request")
	}
	if !body.Status.IsValid() {
		return services.BadRequest(c, "Invalid status")
	}

	current, err := s.store.Request(requestID)
	if err != nil {
		return services.StoreError(c, err, "Swap request not found")
	}
	if !current.IsParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant of this swap"})
	}
	if !canSetStatus(current, userID, body.Status) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": fmt.Sprintf("You cannot mark this swap as %s", body.Status),
		})
	}

	change, err := s.store.UpdateRequestStatus(requestID, body.Status)
	if err != nil {
		return services.StoreError(c, err, fmt.Sprintf("Cannot change status from %s to %s", current.Status, body.Status))
	}

	if change.Changed {
		s.metrics.StatusTransitions.WithLabelValues(string(body.Status)).Inc()
		s.store.Notify(userID, models.Toast{
			Title:       fmt.Sprintf("Request %s", body.Status),
			Description: fmt.Sprintf("The swap request has been %s.", body.Status),
		})
		log.Printf("Статус обмена %s изменён на %s пользователем %s", requestID, body.Status, userID)
	}

	resp := fiber.Map{
		"request": change.Request,
		"changed": change.Changed,
	}
	if change.ConversationID != "" {
		resp["chat_id"] = change.ConversationID
	}
	return c.JSON(resp)
}

// LeaveFeedback сохраняет отзыв о втором участнике завершённого обмена
func (s *SwapService) LeaveFeedback(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return services.BadRequest(c, "Invalid request")
	}
	if body.Rating < 1 || body.Rating > 5 {
		return services.BadRequest(c, "Rating must be between 1 and 5")
	}

	fb, notif, err := s.store.AddFeedback(c.Params("id"), userID, body.Rating, strings.TrimSpace(body.Comment))
	if err != nil {
		return services.StoreError(c, err, feedbackError(err))
	}

	s.metrics.FeedbackSubmitted.Inc()
	s.metrics.NotificationsSent.WithLabelValues(string(notif.Type)).Inc()
	s.store.Notify(userID, models.Toast{
		Title:       "Feedback Submitted",
		Description: "Thank you for your feedback!",
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"feedback":     fb,
		"notification": notif,
	})
}

func feedbackError(err error) string {
	switch services.StatusFor(err) {
	case fiber.StatusNotFound:
		return "Swap request not found"
	case fiber.StatusForbidden:
		return "You are not a participant of this swap"
	case fiber.StatusConflict:
		return "Feedback can be left once, after the swap is completed"
	default:
		return "Failed to save feedback"
	}
}
