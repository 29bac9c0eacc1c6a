// seed crea (o promueve) la cuenta admin. El registro público no permite el rol admin,
// así que este comando es la única vía para crearlo.
//
// Uso: go run ./cmd/seed --username admin --email admin@empresa.com --password '...'
// Los flags toman por defecto SEED_ADMIN_USERNAME, SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD
// (del entorno o de .env).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	// .env en el entorno del proceso para que los defaults SEED_ADMIN_* lo vean.
	_ = godotenv.Load()

	username := pflag.String("username", envOr("SEED_ADMIN_USERNAME", "admin"), "username del admin")
	email := pflag.String("email", envOr("SEED_ADMIN_EMAIL", "admin@localhost.local"), "email del admin")
	password := pflag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "password del admin (mínimo 8 caracteres)")
	migrate := pflag.Bool("migrate", false, "aplicar el esquema antes de crear el admin")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, App: "seed"})

	if len(*password) < 8 {
		log.Fatal().Msg("password requerido (mínimo 8 caracteres): --password o SEED_ADMIN_PASSWORD")
	}
	if cfg.App.StoreBackend != config.StoreBackendPostgres {
		log.Fatal().Str("store", cfg.App.StoreBackend).Msg("seed solo aplica a STORE_BACKEND=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if *migrate || cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
	}

	uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	user, created, err := uc.EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		log.Fatal().Err(err).Str("username", *username).Msg("crear admin")
	}
	if created {
		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin creado")
		return
	}
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin ya existía; rol asegurado")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
