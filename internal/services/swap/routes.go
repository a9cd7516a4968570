package swap

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *SwapService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/requests")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.CreateRequest)
	api.Get("/", s.ListRequests)
	api.Put("/:id/status", s.UpdateRequestStatus)
	api.Post("/:id/feedback", s.LeaveFeedback)
}
