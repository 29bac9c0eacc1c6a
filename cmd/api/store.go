package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// store repositorios del backend elegido con STORE_BACKEND.
type store struct {
	users       repository.UserRepository
	warehouses  repository.WarehouseRepository
	products    repository.ProductRepository
	assignments repository.AssignmentRepository
	movements   repository.MovementRepository
	requests    repository.MovementRequestRepository
	txRunner    inventory.TxRunner
	health      func(ctx context.Context) error
	close       func()
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	switch cfg.App.StoreBackend {
	case config.StoreBackendMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return &store{
			users:       m.Users(),
			warehouses:  m.Warehouses(),
			products:    m.Products(),
			assignments: m.Assignments(),
			movements:   m.Movements(),
			requests:    m.Requests(),
			txRunner:    m.TxRunner(),
			close:       func() {},
		}, nil

	case config.StoreBackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrar esquema: %w", err)
			}
			log.Info().Msg("esquema aplicado")
		}
		return &store{
			users:       postgres.NewUserRepository(pool),
			warehouses:  postgres.NewWarehouseRepository(pool),
			products:    postgres.NewProductRepository(pool),
			assignments: postgres.NewAssignmentRepository(pool),
			movements:   postgres.NewMovementRepository(pool),
			requests:    postgres.NewMovementRequestRepository(pool),
			txRunner:    postgres.NewTxRunner(pool),
			health:      pool.Ping,
			close:       pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORE_BACKEND desconocido: %q", cfg.App.StoreBackend)
}
