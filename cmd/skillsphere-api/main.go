package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillsphere-api/internal/config"
	"github.com/rajivgeraev/skillsphere-api/internal/db"
	"github.com/rajivgeraev/skillsphere-api/internal/metrics"
	"github.com/rajivgeraev/skillsphere-api/internal/seed"
	"github.com/rajivgeraev/skillsphere-api/internal/services/auth"
	"github.com/rajivgeraev/skillsphere-api/internal/services/chat"
	"github.com/rajivgeraev/skillsphere-api/internal/services/cloudinary"
	"github.com/rajivgeraev/skillsphere-api/internal/services/notification"
	"github.com/rajivgeraev/skillsphere-api/internal/services/swap"
	"github.com/rajivgeraev/skillsphere-api/internal/services/user"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
	"github.com/rajivgeraev/skillsphere-api/internal/toast"
	"github.com/rajivgeraev/skillsphere-api/internal/utils"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Начальные данные
	data, err := seed.Load(cfg.SeedPath)
	if err != nil {
		log.Fatalf("❌ Ошибка при загрузке начальных данных: %v", err)
	}

	toasts := toast.NewManager(cfg.ToastBuffer)
	defer toasts.Shutdown()

	st := store.New(data.State(), store.WithNotifier(toasts))

	// Снапшоты в Postgres включаются только при заданном DATABASE_URL
	var snapshotter *db.Snapshotter
	if cfg.DatabaseConfig.Enabled() {
		snapshotter = initSnapshots(cfg, st)
		defer db.CloseDB()
	} else {
		log.Println("⚠️ DATABASE_URL не задан, состояние сбросится при перезапуске")
	}

	// Учётные записи из снапшота сохраняются, из начальных данных добавляются недостающие
	credentials, err := auth.NewCredentials(bcrypt.DefaultCost, st, data.Credentials)
	if err != nil {
		log.Fatalf("❌ Ошибка при загрузке учётных данных: %v", err)
	}

	var wg sync.WaitGroup
	if snapshotter != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snapshotter.Run(ctx)
		}()
	}

	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	appMetrics := metrics.New()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSphere API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": st.Version()})
	})
	app.Get("/metrics", appMetrics.Handler())

	// Регистрируем маршруты
	authService := auth.NewAuthService(cfg, st, jwtService, credentials, appMetrics)
	authService.SetupRoutes(app)
	user.NewUserService(st, jwtService, cfg.PageSize).SetupRoutes(app)
	swap.NewSwapService(st, jwtService, appMetrics).SetupRoutes(app)
	chat.NewChatService(st, jwtService, appMetrics).SetupRoutes(app)
	notification.NewNotificationService(st, toasts, jwtService).SetupRoutes(app)
	cloudinary.NewCloudinaryService(cfg.CloudinaryConfig, jwtService).SetupRoutes(app)

	go func() {
		<-ctx.Done()
		log.Println("Остановка сервера...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Ошибка при остановке сервера: %v", err)
		}
	}()

	// Запускаем сервер
	log.Printf("✅ SkillSphere API запущен на порту %s", cfg.Port)
	if err := app.Listen(cfg.Addr(), fiber.ListenConfig{
		EnablePrintRoutes: cfg.IsDevelopment(),
	}); err != nil {
		log.Printf("❌ Сервер завершился с ошибкой: %v", err)
	}

	// Дожидаемся финального снапшота
	stop()
	wg.Wait()
}

// initSnapshots подключает базу, восстанавливает последнее состояние
// и возвращает фоновое сохранение
func initSnapshots(cfg *config.Config, st *store.Store) *db.Snapshotter {
	if err := db.InitDB(context.Background(), cfg.DatabaseConfig); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}

	repo := db.NewSnapshotRepository(db.Pool)

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ %v", err)
	}

	state, found, err := repo.Load(ctx)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if found {
		st.Restore(state)
		log.Printf("✅ Состояние восстановлено из снапшота, версия %d", state.Version)
	}

	return db.NewSnapshotter(repo, st, cfg.DatabaseConfig.SnapshotInterval)
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	} else {
		log.Printf("Необработанная ошибка %s %s: %v", c.Method(), c.Path(), err)
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
