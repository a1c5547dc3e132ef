package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth      AuthService
	Stock     StockService
	Transfer  TransferService
	Usage     UsageService
	Reports   ReportService
	PartCodes PartCodeService
	Users     UserService
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth)
	authGroup := api.Group("/auth")
	authGroup.Post("/registro", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	api.Get("/protegida/usuario", requireAuth, authHandler.Greeting)

	// Stock: general público, personal protegido
	stockHandler := NewStockHandler(deps.Stock, deps.Transfer)
	stock := api.Group("/stock")
	stock.Get("/", stockHandler.ListGeneral)
	stock.Post("/", stockHandler.AddGeneral)
	stock.Get("/buscar/:codigo", stockHandler.Search)
	stock.Get("/todos", requireAuth, stockHandler.ListAll)
	stock.Get("/usuario/:usuario", requireAuth, stockHandler.ListByOwner)
	stock.Get("/transferencias/:usuario", requireAuth, stockHandler.History)
	stock.Post("/personal", requireAuth, stockHandler.AddPersonal)
	stock.Post("/transferir-personal", requireAuth, stockHandler.Transfer)
	stock.Put("/:id/remove", requireAuth, stockHandler.RemoveOne)
	stock.Put("/:id", requireAuth, stockHandler.Update)
	stock.Delete("/:id", requireAuth, stockHandler.Delete)

	// Usos (protegido)
	usageHandler := NewUsageHandler(deps.Usage)
	usos := api.Group("/usos", requireAuth)
	usos.Post("/", usageHandler.Consume)
	usos.Get("/", usageHandler.ListAll)
	usos.Get("/usuario/:usuario", usageHandler.ListByOwner)
	usos.Get("/estadisticas/:usuario", usageHandler.Stats)
	usos.Delete("/:id", usageHandler.Delete)

	// Correo: reporte semanal y pruebas públicos, reporte personal protegido
	reportHandler := NewReportHandler(deps.Reports)
	correo := api.Group("/correo")
	correo.Post("/", reportHandler.SendWeekly)
	correo.Get("/test", reportHandler.SendTest)
	correo.Get("/test-config", reportHandler.TestConfig)
	correo.Post("/personal", requireAuth, reportHandler.SendPersonal)

	// Códigos de repuesto (público)
	partCodeHandler := NewPartCodeHandler(deps.PartCodes)
	codigos := api.Group("/codigos")
	codigos.Get("/", partCodeHandler.List)
	codigos.Post("/", partCodeHandler.Create)
	codigos.Put("/:id", partCodeHandler.Update)
	codigos.Delete("/:id", partCodeHandler.Delete)

	// Usuarios (público, sin datos sensibles)
	userHandler := NewUserHandler(deps.Users)
	usuarios := api.Group("/usuarios")
	usuarios.Get("/", userHandler.List)
	usuarios.Get("/activos", userHandler.ListActive)
	usuarios.Get("/buscar/:termino", userHandler.Search)
	usuarios.Get("/:id", userHandler.GetByID)
}
