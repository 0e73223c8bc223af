package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pharmaser/estado-medicamentos/internal/application/auth"
	"github.com/pharmaser/estado-medicamentos/internal/application/record"
	infrapdf "github.com/pharmaser/estado-medicamentos/internal/infrastructure/pdf"
	"github.com/pharmaser/estado-medicamentos/internal/infrastructure/postgres"
	"github.com/pharmaser/estado-medicamentos/internal/infrastructure/storage"
	httpRouter "github.com/pharmaser/estado-medicamentos/internal/interfaces/http"
	"github.com/pharmaser/estado-medicamentos/pkg/config"
	"github.com/pharmaser/estado-medicamentos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := postgres.Migrate(cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	recordRepo := postgres.NewRecordRepository(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.Options{
		EmailDomain:   cfg.Auth.EmailDomain,
		AdminUser:     cfg.Auth.AdminUser,
		AdminPassword: cfg.Auth.AdminPassword,
	})
	if err := authUC.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("bootstrap del usuario admin")
	}

	var store record.SoporteStore
	switch cfg.Storage.Backend {
	case config.StorageRemote:
		store = storage.NewRemoteStore(storage.RemoteConfig{
			BaseURL: cfg.Storage.RemoteURL,
			APIKey:  cfg.Storage.RemoteAPIKey,
			Folder:  cfg.Storage.RemoteFolder,
		})
	default:
		store, err = storage.NewLocalStore(cfg.Storage.SoportesDir)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de soportes")
		}
	}

	reportGen := infrapdf.NewMarotoReportGenerator()
	recordUC := record.NewUseCase(recordRepo, store, reportGen, record.Options{
		GenericCodeManual: cfg.Records.GenericCodeMode == config.GenericCodeManual,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Control de Estado de Medicamentos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		RecordUC:  recordUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
