package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
)

// SetupRoutes настраивает маршруты каталога и профиля
func (s *UserService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	users := app.Group("/api/users", authMiddleware)
	users.Get("/", s.ListUsers)
	users.Get("/:id", s.GetUser)

	profile := app.Group("/api/profile", authMiddleware)
	profile.Get("/", s.GetProfile)
	profile.Put("/", s.UpdateProfile)
}
