package user

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/services"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

// UserService каталог пользователей и профиль
type UserService struct {
	store      *store.Store
	jwtService *utils.JWTService
	pageSize   int
}

// NewUserService создает новый экземпляр UserService
func NewUserService(st *store.Store, jwtService *utils.JWTService, pageSize int) *UserService {
	if pageSize <= 0 {
		pageSize = store.DefaultPageSize
	}
	return &UserService{
		store:      st,
		jwtService: jwtService,
		pageSize:   pageSize,
	}
}

// userCard пользователь со средней оценкой для карточки каталога
type userCard struct {
	models.User
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

func newUserCard(u models.User) userCard {
	return userCard{User: u, AverageRating: u.AverageRating(), ReviewCount: len(u.Feedback)}
}

// ListUsers каталог пользователей с поиском, фильтром доступности и страницами
func (s *UserService) ListUsers(c fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return services.BadRequest(c, "Invalid page")
	}

	availability := strings.ToLower(c.Query("availability", "all"))
	if availability != "all" && !models.IsValidAvailability(availability) {
		return services.BadRequest(c, "Invalid availability filter")
	}

	result := store.Directory(s.store.Snapshot(), store.DirectoryFilter{
		ExcludeUserID: middleware.UserID(c),
		Search:        c.Query("search"),
		Availability:  availability,
		Page:          page,
		PageSize:      s.pageSize,
	})

	cards := make([]userCard, 0, len(result.Users))
	for _, u := range result.Users {
		cards = append(cards, newUserCard(u))
	}

	return c.JSON(fiber.Map{
		"users":       cards,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"page_size":   result.PageSize,
	})
}

// GetUser профиль пользователя по ID
func (s *UserService) GetUser(c fiber.Ctx) error {
	u, err := s.store.User(c.Params("id"))
	if err != nil {
		return services.StoreError(c, err, "User not found")
	}
	return c.JSON(newUserCard(u))
}

// GetProfile собственный профиль и счётчики для бейджей
func (s *UserService) GetProfile(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	state := s.store.Snapshot()
	u, ok := store.UserByID(state, userID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"user":                 newUserCard(u),
		"pending_requests":     store.PendingIncomingCount(state, userID),
		"unread_notifications": store.UnreadNotificationCount(state, userID),
	})
}

// profileUpdate поля формы профиля; отсутствующие поля не меняются
type profileUpdate struct {
	Name              *string            `json:"name"`
	Location          *string            `json:"location"`
	Bio               *string            `json:"bio"`
	Avatar            *string            `json:"avatar"`
	SkillsOffered     *[]models.Skill    `json:"skills_offered"`
	SkillsWanted      *[]models.Skill    `json:"skills_wanted"`
	Availability      *[]string          `json:"availability"`
	ProfileVisibility *models.Visibility `json:"profile_visibility"`
}

func (p profileUpdate) apply(u models.User) models.User {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Location != nil {
		u.Location = strings.TrimSpace(*p.Location)
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Avatar != nil && *p.Avatar != "" {
		u.Avatar = *p.Avatar
	}
	if p.SkillsOffered != nil {
		u.SkillsOffered = *p.SkillsOffered
	}
	if p.SkillsWanted != nil {
		u.SkillsWanted = *p.SkillsWanted
	}
	if p.Availability != nil {
		u.Availability = *p.Availability
	}
	if p.ProfileVisibility != nil {
		u.ProfileVisibility = *p.ProfileVisibility
	}
	return u
}

// UpdateProfile сохраняет изменения профиля и делает пользователя активным
func (s *UserService) UpdateProfile(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req profileUpdate
	if err := c.Bind().Body(&req); err != nil {
		return services.BadRequest(c, "Invalid request")
	}

	// Чтение, проверка и запись под одной блокировкой хранилища
	u, err := s.store.UpdateProfile(userID, func(current models.User) (models.User, error) {
		updated := req.apply(current)
		if err := models.ValidateProfile(updated); err != nil {
			return models.User{}, err
		}
		return updated, nil
	})
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return services.ValidationFailed(c, err)
	}
	if err != nil {
		return services.StoreError(c, err, "User not found")
	}

	s.store.Notify(userID, models.Toast{
		Title:       "Profile Updated",
		Description: "Your changes have been saved successfully.",
	})
	log.Printf("Профиль %s обновлён", userID)

	return c.JSON(newUserCard(u))
}
