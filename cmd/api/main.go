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

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.StoreBackend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStore(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	healthChecks := map[string]httpRouter.HealthCheck{}
	if st.health != nil {
		healthChecks["database"] = st.health
	}

	var stockCache inventory.StockCache = inventory.NopStockCache{}
	if cfg.Redis.Enabled() {
		client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := cache.Connect(ctx, client); err != nil {
			// El cache es opcional: sin Redis las lecturas van directo al ledger.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, cache de stock desactivado")
			_ = client.Close()
		} else {
			redisCache := cache.NewStockCache(client, cfg.Redis.StockCacheTTL())
			defer redisCache.Close()
			stockCache = redisCache
			healthChecks["redis"] = redisCache.HealthCheck
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.StockCacheTTL()).Msg("cache de stock en redis")
		}
	}

	ledgerUC := inventory.NewLedgerUseCase(st.txRunner, st.movements, st.products, st.warehouses, st.assignments, stockCache)
	requestUC := inventory.NewRequestWorkflowUseCase(st.txRunner, ledgerUC, st.requests)
	warehouseUC := usecase.NewWarehouseUseCase(st.warehouses, st.assignments)
	productUC := usecase.NewProductUseCase(st.products)
	assignmentUC := usecase.NewAssignmentUseCase(st.assignments, st.warehouses, st.users)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		WarehouseUC:  warehouseUC,
		ProductUC:    productUC,
		AssignmentUC: assignmentUC,
		Ledger:       ledgerUC,
		Requests:     requestUC,
		Users:        st.users,
		JWTSecret:    cfg.JWT.Secret,
		HealthChecks: healthChecks,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(app, cfg.HTTP.Addr(), quit); err != nil {
		log.Error().Err(err).Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP finalizado")
		os.Exit(1)
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
