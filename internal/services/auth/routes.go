package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	public := app.Group("/api/auth")
	public.Post("/login", s.LoginHandler)
	public.Post("/telegram", s.TelegramAuthHandler)
	public.Post("/signup", s.SignupHandler)

	// Защищенные маршруты
	authMiddleware := middleware.AuthMiddleware(s.jwtService)
	app.Group("/api/auth/logout", authMiddleware).Post("/", s.LogoutHandler)
	app.Group("/api/session", authMiddleware).Get("/", s.SessionHandler)
}
