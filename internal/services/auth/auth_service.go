package auth

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/rajivgeraev/skillsphere-api/internal/config"
	"github.com/rajivgeraev/skillsphere-api/internal/metrics"
	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/services"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

// MinPasswordLength минимальная длина пароля при регистрации
const MinPasswordLength = 8

// telegramInitDataTTL срок действия initData из Telegram
const telegramInitDataTTL = 24 * time.Hour

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg         *config.Config
	store       *store.Store
	jwtService  *utils.JWTService
	credentials *Credentials
	metrics     *metrics.Metrics
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, st *store.Store, jwtService *utils.JWTService, creds *Credentials, m *metrics.Metrics) *AuthService {
	return &AuthService{
		cfg:         cfg,
		store:       st,
		jwtService:  jwtService,
		credentials: creds,
		metrics:     m,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler вход по email и паролю
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return services.BadRequest(c, "Invalid request")
	}

	userID, err := s.credentials.Verify(req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	user, err := s.store.User(userID)
	if err != nil {
		log.Printf("Учётные данные %s ссылаются на отсутствующего пользователя %s", req.Email, userID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	s.store.SetCurrentUser(user)
	return s.respondWithToken(c, fiber.StatusOK, user)
}

// TelegramAuthHandler проверяет initData, создаёт пользователя при первом входе
// и возвращает JWT
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	if s.cfg.TelegramBotToken == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Telegram login is not configured"})
	}

	var payload struct {
		InitData string `json:"init_data"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return services.BadRequest(c, "Invalid request")
	}

	// Проверяем initData
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, telegramInitDataTTL); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Telegram data"})
	}

	data, err := initdata.Parse(payload.InitData)
	if err != nil || data.User.ID == 0 {
		return services.BadRequest(c, "Failed to parse initData")
	}

	userID := fmt.Sprintf("tg-%d", data.User.ID)
	user, err := s.store.User(userID)
	if errors.Is(err, store.ErrNotFound) {
		user = newTelegramUser(userID, data.User)
		s.store.AddUser(user)
		s.metrics.UsersRegistered.WithLabelValues("telegram").Inc()
		log.Printf("Новый пользователь Telegram: %s", userID)
	} else if err != nil {
		return services.StoreError(c, err, "Failed to load user")
	}

	s.store.SetCurrentUser(user)
	return s.respondWithToken(c, fiber.StatusOK, user)
}

func newTelegramUser(id string, tg initdata.User) models.User {
	name := strings.TrimSpace(tg.FirstName + " " + tg.LastName)
	if name == "" {
		name = tg.Username
	}
	if name == "" {
		name = "Telegram User"
	}

	avatar := tg.PhotoURL
	if avatar == "" {
		avatar = placeholderAvatar(name)
	}

	return models.User{
		ID:                id,
		Name:              name,
		Avatar:            avatar,
		SkillsOffered:     []models.Skill{},
		SkillsWanted:      []models.Skill{},
		Availability:      []string{models.AvailabilityFlexible},
		ProfileVisibility: models.VisibilityPublic,
		Feedback:          []models.Feedback{},
	}
}

type signupRequest struct {
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Password          string            `json:"password"`
	Location          string            `json:"location"`
	Bio               string            `json:"bio"`
	Avatar            string            `json:"avatar"`
	Availability      []string          `json:"availability"`
	SkillsOffered     []models.Skill    `json:"skills_offered"`
	SkillsWanted      []models.Skill    `json:"skills_wanted"`
	ProfileVisibility models.Visibility `json:"profile_visibility"`
}

// SignupHandler регистрация через мастер из четырёх шагов
func (s *AuthService) SignupHandler(c fiber.Ctx) error {
	var req signupRequest
	if err := c.Bind().Body(&req); err != nil {
		return services.BadRequest(c, "Invalid request")
	}

	if !isValidEmail(req.Email) {
		return services.ValidationFailed(c, &models.ValidationError{Field: "email", Message: "Invalid email address."})
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return services.ValidationFailed(c, &models.ValidationError{Field: "password", Message: "Password must be at least 8 characters."})
	}
	if len(req.Password) > MaxPasswordBytes {
		return services.ValidationFailed(c, &models.ValidationError{Field: "password", Message: "Password must be at most 72 bytes."})
	}

	visibility := req.ProfileVisibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	user := models.User{
		ID:                s.store.NewID("user"),
		Name:              strings.TrimSpace(req.Name),
		Avatar:            req.Avatar,
		Location:          strings.TrimSpace(req.Location),
		Bio:               req.Bio,
		SkillsOffered:     req.SkillsOffered,
		SkillsWanted:      req.SkillsWanted,
		Availability:      req.Availability,
		ProfileVisibility: visibility,
		Feedback:          []models.Feedback{},
	}
	if err := models.ValidateProfile(user); err != nil {
		return services.ValidationFailed(c, err)
	}
	if err := models.ValidateNewUserSkills(user.SkillsOffered, user.SkillsWanted); err != nil {
		return services.ValidationFailed(c, err)
	}
	if user.Avatar == "" {
		user.Avatar = placeholderAvatar(user.Name)
	}
	if s.credentials.Exists(req.Email) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already registered"})
	}

	if err := s.credentials.Add(req.Email, req.Password, user.ID); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already registered"})
		}
		log.Printf("Ошибка при сохранении учётных данных: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	s.store.AddUser(user)
	s.store.SetCurrentUser(user)
	s.metrics.UsersRegistered.WithLabelValues("email").Inc()
	s.store.Notify(user.ID, models.Toast{
		Title:       "Welcome to SkillSphere!",
		Description: "Your profile has been created successfully.",
	})

	return s.respondWithToken(c, fiber.StatusCreated, user)
}

// LogoutHandler возвращает активным начального пользователя
func (s *AuthService) LogoutHandler(c fiber.Ctx) error {
	current := s.store.ResetCurrentUser()
	return c.JSON(fiber.Map{
		"message":      "Logged out",
		"current_user": current,
	})
}

// SessionHandler показывает активного пользователя и владельца токена
func (s *AuthService) SessionHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id":      middleware.UserID(c),
		"current_user": s.store.CurrentUser(),
	})
}

func (s *AuthService) respondWithToken(c fiber.Ctx, status int, user models.User) error {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// placeholderAvatar аватар с инициалами, как у начальных пользователей
func placeholderAvatar(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		initials = append(initials, unicode.ToUpper(r))
		if len(initials) == 2 {
			break
		}
	}
	return "https://placehold.co/100x100.png?text=" + url.QueryEscape(string(initials))
}
