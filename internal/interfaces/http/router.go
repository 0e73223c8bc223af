package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmaser/estado-medicamentos/internal/application/auth"
	"github.com/pharmaser/estado-medicamentos/internal/application/record"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	RecordUC  *record.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Gestión de usuarios (solo admin)
	protected.Get("/usuarios", RequireRole(entity.RoleAdmin), authHandler.ListUsers)

	// Registros de medicamentos (protegido)
	registros := protected.Group("/registros")
	recordHandler := NewRecordHandler(deps.RecordUC)
	registros.Post("/", recordHandler.Create)
	registros.Get("/", recordHandler.List)
	// Rutas fijas antes del parámetro :consecutivo
	registros.Get("/next", recordHandler.Next)
	registros.Get("/reporte", recordHandler.Report)
	registros.Get("/:consecutivo", recordHandler.GetByConsecutivo)
	registros.Get("/:consecutivo/soporte", recordHandler.FetchSoporte)
}
