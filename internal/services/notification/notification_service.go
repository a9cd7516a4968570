package notification

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/services"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

// ToastSource очередь кратковременных уведомлений
type ToastSource interface {
	Drain(userID string) []models.Toast
}

// NotificationService уведомления и toast-очередь пользователя
type NotificationService struct {
	store      *store.Store
	toasts     ToastSource
	jwtService *utils.JWTService
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(st *store.Store, toasts ToastSource, jwtService *utils.JWTService) *NotificationService {
	return &NotificationService{
		store:      st,
		toasts:     toasts,
		jwtService: jwtService,
	}
}

// notificationView уведомление с данными отправителя для выпадающего списка
type notificationView struct {
	models.Notification
	FromUser services.UserSummary `json:"from_user"`
}

// GetNotifications уведомления пользователя, новые первыми, и число непрочитанных
func (s *NotificationService) GetNotifications(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	state := s.store.Snapshot()

	list := store.NotificationsFor(state, userID)
	views := make([]notificationView, 0, len(list))
	for _, n := range list {
		views = append(views, notificationView{
			Notification: n,
			FromUser:     services.Summarize(state, n.FromUserID),
		})
	}

	return c.JSON(fiber.Map{
		"notifications": views,
		"unread_count":  store.UnreadNotificationCount(state, userID),
	})
}

// MarkRead помечает уведомление прочитанным
func (s *NotificationService) MarkRead(c fiber.Ctx) error {
	userID := middleware.UserID(c)
	id := c.Params("id")

	n, err := s.store.Notification(id)
	if err != nil {
		return services.StoreError(c, err, "Notification not found")
	}
	if n.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This notification belongs to another user"})
	}

	if err := s.store.MarkNotificationRead(id); err != nil {
		return services.StoreError(c, err, "Notification not found")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"unread_count": store.UnreadNotificationCount(s.store.Snapshot(), userID),
	})
}

// DrainToasts отдаёт накопленные toast и очищает очередь
func (s *NotificationService) DrainToasts(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"toasts": s.toasts.Drain(middleware.UserID(c)),
	})
}
