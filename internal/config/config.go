package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	AppEnv           string           `env:"APP_ENV" env-default:"production"`
	Port             string           `env:"PORT" env-default:"8080"`
	JWTSecret        string           `env:"JWT_SECRET"`
	JWTTTL           time.Duration    `env:"JWT_TTL" env-default:"24h"`
	TelegramBotToken string           `env:"TELEGRAM_BOT_TOKEN"`
	SeedPath         string           `env:"SEED_PATH"`
	PageSize         int              `env:"PAGE_SIZE" env-default:"6"`
	ToastBuffer      int              `env:"TOAST_BUFFER" env-default:"32"`
	DatabaseConfig   DatabaseConfig   // Снапшоты состояния, по умолчанию выключены
	CloudinaryConfig CloudinaryConfig // Загрузка аватаров
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	URL              string        `env:"DATABASE_URL"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" env-default:"1m"`
	MaxConns         int32         `env:"DB_MAX_CONNS" env-default:"4"`
}

// Enabled включено ли сохранение снапшотов
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey       string `env:"CLOUDINARY_API_KEY"`
	APISecret    string `env:"CLOUDINARY_API_SECRET"`
	UploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET" env-default:"skillsphere_avatars"`
	UploadFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" env-default:"avatars"`
}

// IsDevelopment локальное окружение
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "local"
}

// Addr адрес для Listen
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load загружает переменные из .env и окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig загружает конфигурацию и завершает процесс при ошибке
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("не задана обязательная переменная JWT_SECRET")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT не может быть пустым")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE должен быть больше нуля")
	}
	if c.ToastBuffer <= 0 {
		return fmt.Errorf("TOAST_BUFFER должен быть больше нуля")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL должен быть больше нуля")
	}
	if c.DatabaseConfig.Enabled() && c.DatabaseConfig.SnapshotInterval <= 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL должен быть больше нуля")
	}
	if c.DatabaseConfig.Enabled() && c.DatabaseConfig.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS должен быть больше нуля")
	}
	return nil
}
