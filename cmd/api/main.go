package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/stockit-api/docs"
	"github.com/jhoicas/stockit-api/internal/application/auth"
	"github.com/jhoicas/stockit-api/internal/application/inventory"
	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/application/report"
	"github.com/jhoicas/stockit-api/internal/application/usecase"
	"github.com/jhoicas/stockit-api/internal/infrastructure/email"
	"github.com/jhoicas/stockit-api/internal/infrastructure/export"
	"github.com/jhoicas/stockit-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stockit-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockit-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockit-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/stockit-api/internal/interfaces/http"
	"github.com/jhoicas/stockit-api/pkg/config"
	"github.com/jhoicas/stockit-api/pkg/logger"
)

const emailTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	version, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Int64("version", version).Msg("esquema al día")

	loc := cfg.App.Location()
	reg := metrics.New("stockit")

	mailer, err := email.NewMailer(cfg.Email, emailTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor de correo")
	}
	dispatcher := notification.NewDispatcher(mailer, notification.Config{
		DomainVerified: cfg.Email.DomainVerified,
		From:           cfg.Email.From,
		SandboxFrom:    cfg.Email.SandboxFrom,
		ReplyTo:        cfg.Email.ReplyTo,
		SendTimeout:    emailTimeout,
	}, log.Component("notification"), reg)

	generators := export.NewRegistry(cfg.Report.Format,
		export.NewCSVGenerator(cfg.Report.TmpDir, loc),
		export.NewXLSXGenerator(cfg.Report.TmpDir, loc),
		infrapdf.NewMarotoPDFGenerator(cfg.Report.TmpDir, loc),
	)

	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	partCodeRepo := postgres.NewPartCodeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, dispatcher, auth.Options{
		FrontendURL:      cfg.App.FrontendURL,
		ExposeResetToken: cfg.App.IsDevelopment(),
	}, log.Component("auth"))

	stockUC := inventory.NewStockUseCase(txRunner, stockRepo, transferRepo)
	usageUC := inventory.NewUsageUseCase(txRunner, usageRepo)
	transferUC := inventory.NewTransferUseCase(txRunner, userRepo, dispatcher, inventory.Recipients{
		Principal: cfg.Report.Principal,
		CC:        cfg.Report.CC,
	}, loc, log.Component("transfer"))

	reportUC := report.NewUseCase(usageRepo, userRepo, generators, dispatcher, report.Config{
		Principal: cfg.Report.Principal,
		CC:        cfg.Report.CC,
		Location:  loc,
	}, log.Component("report")).WithRecorder(reg)

	partCodeUC := usecase.NewPartCodeUseCase(partCodeRepo)
	userUC := usecase.NewUserUseCase(userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		UnescapePath: true,
		ErrorHandler: httpRouter.ErrorHandler(cfg.App.IsDevelopment(), log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	if cfg.Metrics.Enabled {
		app.Use(reg.Middleware())
		app.Get("/metrics", reg.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockIt API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:      authUC,
		Stock:     stockUC,
		Transfer:  transferUC,
		Usage:     usageUC,
		Reports:   reportUC,
		PartCodes: partCodeUC,
		Users:     userUC,
		JWTSecret: cfg.JWT.Secret,
	})

	var sched *scheduler.Scheduler
	if cfg.Report.SchedulerEnabled {
		sched, err = scheduler.New(cfg.Report.Cron, loc, reportUC, authUC, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		sched.Start()
	}

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
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("trabajos programados sin terminar")
		}
	}
	transferUC.Wait()
	authUC.Wait()
	pool.Close()

	log.Info().Msg("aplicación detenida")
}
