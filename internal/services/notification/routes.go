package notification

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
)

// SetupRoutes настраивает маршруты уведомлений
func (s *NotificationService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	api := app.Group("/api/notifications")
	api.Use(authMiddleware)
	api.Get("/", s.GetNotifications)
	api.Put("/:id/read", s.MarkRead)

	toasts := app.Group("/api/toasts", authMiddleware)
	toasts.Get("/", s.DrainToasts)
}
