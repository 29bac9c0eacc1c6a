package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/access"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMovement_EntradaSumaStock(t *testing.T) {
	f := newFixture(t)

	mov, err := f.ledger.RecordMovement(context.Background(), f.ownerX, inventory.MovementInput{
		ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeIn, Quantity: 10, Notes: "compra",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), mov.Quantity)
	assert.Equal(t, entity.MovementTypeIn, mov.Type)
	assert.Equal(t, f.ownerX.UserID, mov.UserID)
	assert.Empty(t, mov.ReferenceID)
	assert.Equal(t, int64(10), f.stock(t, f.pX.ID, f.norte.ID))
}

func TestRecordMovement_SalidaSinStockNoModificaLedger(t *testing.T) {
	f := newFixture(t)
	f.stockIn(t, f.pX.ID, f.norte.ID, 10)

	_, err := f.ledger.RecordMovement(context.Background(), f.ownerX, inventory.MovementInput{
		ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeOut, Quantity: 15,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(10), stockErr.Current)
	assert.Equal(t, int64(15), stockErr.Requested)

	assert.Equal(t, int64(10), f.stock(t, f.pX.ID, f.norte.ID))
	movs, err := f.ledger.ListMovements(context.Background(), f.admin, inventory.MovementQuery{ProductID: f.pX.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRecordMovement_SalidaGuardaCantidadNegativa(t *testing.T) {
	f := newFixture(t)
	f.stockIn(t, f.pX.ID, f.norte.ID, 10)

	mov, err := f.ledger.RecordMovement(context.Background(), f.ownerX, inventory.MovementInput{
		ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeOut, Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-10), mov.Quantity)
	assert.Zero(t, f.stock(t, f.pX.ID, f.norte.ID))
}

func TestRecordMovement_Errores(t *testing.T) {
	tests := []struct {
		name  string
		actor func(f *fixture) access.Actor
		input func(f *fixture) inventory.MovementInput
		want  error
	}{
		{
			name:  "cantidad cero",
			actor: func(f *fixture) access.Actor { return f.admin },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeIn}
			},
			want: domain.ErrInvalidInput,
		},
		{
			name:  "tipo de traslado no se acepta como directo",
			actor: func(f *fixture) access.Actor { return f.admin },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeTransferIn, Quantity: 1}
			},
			want: domain.ErrInvalidInput,
		},
		{
			name:  "producto inexistente",
			actor: func(f *fixture) access.Actor { return f.admin },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: "no-existe", WarehouseID: f.norte.ID, Type: entity.MovementTypeIn, Quantity: 1}
			},
			want: domain.ErrNotFound,
		},
		{
			name:  "producto inactivo",
			actor: func(f *fixture) access.Actor { return f.admin },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pInactive.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeIn, Quantity: 1}
			},
			want: domain.ErrInactiveProduct,
		},
		{
			name:  "bodega inexistente",
			actor: func(f *fixture) access.Actor { return f.admin },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pX.ID, WarehouseID: "no-existe", Type: entity.MovementTypeIn, Quantity: 1}
			},
			want: domain.ErrNotFound,
		},
		{
			name:  "entrada a bodega cerrada",
			actor: func(f *fixture) access.Actor { return f.ownerX },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pX.ID, WarehouseID: f.cerrada.ID, Type: entity.MovementTypeIn, Quantity: 1}
			},
			want: domain.ErrUnavailable,
		},
		{
			name:  "producto ajeno",
			actor: func(f *fixture) access.Actor { return f.ownerY },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pX.ID, WarehouseID: f.oeste.ID, Type: entity.MovementTypeIn, Quantity: 1}
			},
			want: domain.ErrForbidden,
		},
		{
			name:  "owner en bodega ajena",
			actor: func(f *fixture) access.Actor { return f.ownerX },
			input: func(f *fixture) inventory.MovementInput {
				return inventory.MovementInput{ProductID: f.pX.ID, WarehouseID: f.oeste.ID, Type: entity.MovementTypeIn, Quantity: 1}
			},
			want: domain.ErrForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.ledger.RecordMovement(context.Background(), tt.actor(f), tt.input(f))
			assert.ErrorIs(t, err, tt.want)

			movs, err := f.ledger.ListMovements(context.Background(), f.admin, inventory.MovementQuery{})
			require.NoError(t, err)
			assert.Empty(t, movs)
		})
	}
}

func TestRecordMovement_UserConProductoPropioPasa(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.RecordMovement(context.Background(), f.user, inventory.MovementInput{
		ProductID: f.pU.ID, WarehouseID: f.oeste.ID, Type: entity.MovementTypeIn, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.stock(t, f.pU.ID, f.oeste.ID))
}

func TestRecordTransfer_MueveStockYEnlazaPatas(t *testing.T) {
	f := newFixture(t)
	f.stockIn(t, f.pX.ID, f.norte.ID, 10)

	res, err := f.ledger.RecordTransfer(context.Background(), f.ownerX, inventory.TransferInput{
		ProductID: f.pX.ID, FromWarehouseID: f.norte.ID, ToWarehouseID: f.sur.ID, Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), f.stock(t, f.pX.ID, f.norte.ID))
	assert.Equal(t, int64(5), f.stock(t, f.pX.ID, f.sur.ID))

	require.NotEmpty(t, res.ReferenceID)
	assert.Equal(t, res.ReferenceID, res.Out.ReferenceID)
	assert.Equal(t, res.ReferenceID, res.In.ReferenceID)
	assert.Equal(t, entity.MovementTypeTransferOut, res.Out.Type)
	assert.Equal(t, entity.MovementTypeTransferIn, res.In.Type)
	assert.Equal(t, int64(-5), res.Out.Quantity)
	assert.Equal(t, int64(5), res.In.Quantity)

	legs, err := f.store.Movements().ListByReference(context.Background(), res.ReferenceID)
	require.NoError(t, err)
	assert.Len(t, legs, 2)
}

func TestRecordTransfer_Errores(t *testing.T) {
	t.Run("misma bodega", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.RecordTransfer(context.Background(), f.ownerX, inventory.TransferInput{
			ProductID: f.pX.ID, FromWarehouseID: f.norte.ID, ToWarehouseID: f.norte.ID, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("destino cerrado", func(t *testing.T) {
		f := newFixture(t)
		f.stockIn(t, f.pX.ID, f.norte.ID, 10)
		_, err := f.ledger.RecordTransfer(context.Background(), f.ownerX, inventory.TransferInput{
			ProductID: f.pX.ID, FromWarehouseID: f.norte.ID, ToWarehouseID: f.cerrada.ID, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		assert.Equal(t, int64(10), f.stock(t, f.pX.ID, f.norte.ID))
	})

	t.Run("stock insuficiente no deja pata suelta", func(t *testing.T) {
		f := newFixture(t)
		f.stockIn(t, f.pX.ID, f.norte.ID, 2)
		_, err := f.ledger.RecordTransfer(context.Background(), f.ownerX, inventory.TransferInput{
			ProductID: f.pX.ID, FromWarehouseID: f.norte.ID, ToWarehouseID: f.sur.ID, Quantity: 3,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, int64(2), f.stock(t, f.pX.ID, f.norte.ID))
		assert.Zero(t, f.stock(t, f.pX.ID, f.sur.ID))
	})

	t.Run("owner sin la bodega destino", func(t *testing.T) {
		f := newFixture(t)
		f.stockIn(t, f.pX.ID, f.norte.ID, 10)
		_, err := f.ledger.RecordTransfer(context.Background(), f.ownerX, inventory.TransferInput{
			ProductID: f.pX.ID, FromWarehouseID: f.norte.ID, ToWarehouseID: f.oeste.ID, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

// El stock siempre es la suma de los movimientos y nunca baja de cero.
func TestLedger_SumaDeMovimientosYNoNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	warehouses := []string{f.norte.ID, f.sur.ID}

	for i := 0; i < 200; i++ {
		var err error
		switch rng.Intn(3) {
		case 0:
			_, err = f.ledger.RecordMovement(ctx, f.ownerX, inventory.MovementInput{
				ProductID: f.pX.ID, WarehouseID: warehouses[rng.Intn(2)], Type: entity.MovementTypeIn, Quantity: int64(rng.Intn(5) + 1),
			})
		case 1:
			_, err = f.ledger.RecordMovement(ctx, f.ownerX, inventory.MovementInput{
				ProductID: f.pX.ID, WarehouseID: warehouses[rng.Intn(2)], Type: entity.MovementTypeOut, Quantity: int64(rng.Intn(8) + 1),
			})
		case 2:
			from := rng.Intn(2)
			_, err = f.ledger.RecordTransfer(ctx, f.ownerX, inventory.TransferInput{
				ProductID: f.pX.ID, FromWarehouseID: warehouses[from], ToWarehouseID: warehouses[1-from], Quantity: int64(rng.Intn(6) + 1),
			})
		}
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}

		for _, w := range warehouses {
			movs, err := f.ledger.ListMovements(ctx, f.admin, inventory.MovementQuery{ProductID: f.pX.ID, WarehouseID: w})
			require.NoError(t, err)
			var sum int64
			for _, m := range movs {
				sum += m.Quantity
			}
			current := f.stock(t, f.pX.ID, w)
			require.Equal(t, sum, current)
			require.GreaterOrEqual(t, current, int64(0))
		}
	}
}

// Salidas concurrentes que en conjunto superan el stock: solo pasan las que alcanzan.
func TestRecordMovement_SalidasConcurrentes(t *testing.T) {
	f := newFixture(t)
	f.stockIn(t, f.pX.ID, f.norte.ID, 10)

	const workers = 25
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordMovement(context.Background(), f.ownerX, inventory.MovementInput{
				ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeOut, Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, rejected)
	assert.Zero(t, f.stock(t, f.pX.ID, f.norte.ID))
}

func TestStockDistribution_PorRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stockIn(t, f.pX.ID, f.norte.ID, 10)
	f.stockIn(t, f.pX.ID, f.sur.ID, 5)
	f.stockIn(t, f.pX.ID, f.oeste.ID, 3)

	all, err := f.ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(18), all.Total)
	assert.Len(t, all.Warehouses, 3)

	owned, err := f.ledger.StockDistribution(ctx, f.ownerX, f.pX.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), owned.Total)
	assert.Equal(t, []inventory.WarehouseStock{
		{WarehouseID: f.norte.ID, Name: "Norte", Stock: 10},
		{WarehouseID: f.sur.ID, Name: "Sur", Stock: 5},
	}, owned.Warehouses)

	_, err = f.ledger.StockDistribution(ctx, f.ownerY, f.pX.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "producto ajeno")
}

func TestStockDistribution_UserPorUbicacionYAsignacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stockIn(t, f.pU.ID, f.norte.ID, 4)
	f.stockIn(t, f.pU.ID, f.oeste.ID, 2)
	f.stockIn(t, f.pU.ID, f.sur.ID, 1)

	dist, err := f.ledger.StockDistribution(ctx, f.user, f.pU.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), dist.Total, "solo la bodega de su ubicación")

	require.NoError(t, f.store.Assignments().Create(ctx, &entity.UserWarehouseAssignment{ID: "a1", UserID: f.user.UserID, WarehouseID: f.oeste.ID}))
	dist, err = f.ledger.StockDistribution(ctx, f.user, f.pU.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), dist.Total)
	assert.Len(t, dist.Warehouses, 2)
}

func TestStockDistribution_OmiteStockCeroYRechazaProductoInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stockIn(t, f.pX.ID, f.norte.ID, 3)
	_, err := f.ledger.RecordMovement(ctx, f.ownerX, inventory.MovementInput{
		ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeOut, Quantity: 3,
	})
	require.NoError(t, err)

	dist, err := f.ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	assert.Empty(t, dist.Warehouses)
	assert.Zero(t, dist.Total)

	_, err = f.ledger.StockDistribution(ctx, f.admin, f.pInactive.ID)
	assert.ErrorIs(t, err, domain.ErrInactiveProduct)
}

func TestStockDistribution_UsaCacheEInvalidaAlEscribir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stockIn(t, f.pX.ID, f.norte.ID, 7)

	_, err := f.ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	cached, version, hit := f.cache.Get(ctx, f.pX.ID, f.norte.ID)
	require.True(t, hit)
	assert.Equal(t, int64(7), cached)

	// Un valor en cache se sirve sin recalcular
	f.cache.Set(ctx, f.pX.ID, f.norte.ID, 99, version)
	dist, err := f.ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(99), dist.Total)

	// Escribir invalida la entrada
	f.stockIn(t, f.pX.ID, f.norte.ID, 1)
	_, _, hit = f.cache.Get(ctx, f.pX.ID, f.norte.ID)
	assert.False(t, hit)
	dist, err = f.ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), dist.Total)
}

// Una escritura confirmada entre la suma y el Set no deja la suma vieja en cache.
func TestStockDistribution_EscrituraDuranteLecturaNoDejaCacheViejo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stockIn(t, f.pX.ID, f.norte.ID, 10)

	racy := &writeDuringSet{mapCache: newMapCache()}
	ledger := inventory.NewLedgerUseCase(f.store.TxRunner(), f.store.Movements(), f.store.Products(), f.store.Warehouses(), f.store.Assignments(), racy)
	racy.write = func() {
		_, err := ledger.RecordMovement(ctx, f.admin, inventory.MovementInput{
			ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeIn, Quantity: 5,
		})
		require.NoError(t, err)
	}

	first, err := ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.Total, "la primera lectura sumó antes de la escritura")

	_, _, hit := racy.Get(ctx, f.pX.ID, f.norte.ID)
	assert.False(t, hit, "la suma vieja no debe quedar en cache")

	second, err := ledger.StockDistribution(ctx, f.admin, f.pX.ID)
	require.NoError(t, err)
	assert.Equal(t, f.stock(t, f.pX.ID, f.norte.ID), second.Total)
	assert.Equal(t, int64(15), second.Total)
}

// La invalidación posterior al commit no hereda la cancelación del request.
func TestRecordMovement_InvalidaAunqueSeCanceleElRequest(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := inventory.NewLedgerUseCase(
		cancelAfterCommit{TxRunner: f.store.TxRunner(), cancel: cancel},
		f.store.Movements(), f.store.Products(), f.store.Warehouses(), f.store.Assignments(), f.cache,
	)
	_, err := ledger.RecordMovement(ctx, f.admin, inventory.MovementInput{
		ProductID: f.pX.ID, WarehouseID: f.norte.ID, Type: entity.MovementTypeIn, Quantity: 3,
	})
	require.NoError(t, err)
	require.Error(t, ctx.Err(), "el request ya está cancelado al invalidar")

	require.Equal(t, []string{f.pX.ID + "/" + f.norte.ID}, f.cache.invalidated)
	assert.NoError(t, f.cache.invalidateErr[0])
}

func TestListMovements_AlcancePorRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stockIn(t, f.pX.ID, f.norte.ID, 5)
	f.stockIn(t, f.pX.ID, f.oeste.ID, 5)
	_, err := f.ledger.RecordMovement(ctx, f.user, inventory.MovementInput{
		ProductID: f.pU.ID, WarehouseID: f.oeste.ID, Type: entity.MovementTypeIn, Quantity: 1,
	})
	require.NoError(t, err)

	all, err := f.ledger.ListMovements(ctx, f.admin, inventory.MovementQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	owned, err := f.ledger.ListMovements(ctx, f.ownerX, inventory.MovementQuery{})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, f.norte.ID, owned[0].WarehouseID)

	mine, err := f.ledger.ListMovements(ctx, f.user, inventory.MovementQuery{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.UserID, mine[0].UserID)

	_, err = f.ledger.ListMovements(ctx, f.admin, inventory.MovementQuery{Type: "ajuste"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.ListMovements(ctx, access.Actor{UserID: "x", Role: entity.Role("superuser")}, inventory.MovementQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
