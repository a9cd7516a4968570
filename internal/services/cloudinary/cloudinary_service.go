package cloudinary

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/config"
	"github.com/rajivgeraev/skillsphere-api/internal/middleware"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

// CloudinaryService выдаёт клиенту подписанные параметры для загрузки аватара
type CloudinaryService struct {
	cfg          config.CloudinaryConfig
	jwtService   *utils.JWTService
	uploadFolder string
	uploadPreset string
	now          func() time.Time
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg config.CloudinaryConfig, jwtService *utils.JWTService) *CloudinaryService {
	return &CloudinaryService{
		cfg:          cfg,
		jwtService:   jwtService,
		uploadFolder: cfg.UploadFolder,
		uploadPreset: cfg.UploadPreset,
		now:          time.Now,
	}
}

// Configured заданы ли ключи Cloudinary
func (s *CloudinaryService) Configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// GenerateSignature подписывает параметры загрузки секретом API
func (s *CloudinaryService) GenerateSignature(params url.Values) (string, error) {
	return api.SignParameters(params, s.cfg.APISecret)
}

// GenerateUploadParams создаёт параметры для загрузки аватара текущего пользователя
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	if !s.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Avatar upload is not configured"})
	}

	userID := middleware.UserID(c)
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	publicID := "avatar-" + userID

	// Параметры для подписи
	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("public_id", publicID)
	if s.uploadFolder != "" {
		params.Set("folder", s.uploadFolder)
	}
	if s.uploadPreset != "" {
		params.Set("upload_preset", s.uploadPreset)
	}

	signature, err := s.GenerateSignature(params)
	if err != nil {
		log.Printf("Ошибка подписи параметров Cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload parameters"})
	}

	return c.JSON(fiber.Map{
		"timestamp":     timestamp,
		"signature":     signature,
		"api_key":       s.cfg.APIKey,
		"cloud_name":    s.cfg.CloudName,
		"folder":        s.uploadFolder,
		"upload_preset": s.uploadPreset,
		"public_id":     publicID,
		"upload_url":    fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cfg.CloudName),
	})
}
