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

	"github.com/jhoicas/Restaurante-api/internal/application/auth"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	infracache "github.com/jhoicas/Restaurante-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Restaurante-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Restaurante-api/internal/interfaces/http"
	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
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

	loc, err := cfg.App.Location()
	if err != nil {
		log.Warn().Err(err).Msg("zona horaria inválida, se usa UTC")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.SchemaAutoCreate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
	}

	// Caché de disponibilidad: opcional, solo si REDIS_ADDR está definido.
	var availabilityCache inventory.AvailabilityCache
	if cfg.Redis.Enabled() {
		rdb, err := infracache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché desactivada")
		} else {
			defer rdb.Close()
			availabilityCache = infracache.NewAvailabilityCache(rdb, cfg.Redis.TTL)
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	stockInRepo := postgres.NewStockInRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	menuRepo := postgres.NewMenuRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)

	stockInUC := inventory.NewStockInUseCase(txRunner, stockInRepo, availabilityCache, log.Zerolog())
	auditUC := inventory.NewAuditTrailUseCase(auditRepo)
	availabilityUC := inventory.NewMenuAvailabilityUseCase(menuRepo, availabilityCache, log.Zerolog())

	// PDF: comprobante de entrada de stock
	receiptUC := inventory.NewStockInReceiptUseCase(stockInUC, infrapdf.NewStockInReceiptGenerator(cfg.App.Name))

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Restaurante API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:         authUC,
		StockIns:     stockInUC,
		Receipts:     receiptUC,
		AuditTrail:   auditUC,
		Availability: availabilityUC,
		JWTSecret:    cfg.JWT.Secret,
		Location:     loc,
		Logger:       httpLog,
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
