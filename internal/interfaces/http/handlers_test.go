package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

func TestHealth(t *testing.T) {
	s := newServer(t)
	var body map[string]any
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuth_RegisterYLogin(t *testing.T) {
	s := newServer(t)
	token, id := s.register(t, "ana", "warehouse_owner", "Cali")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, id)

	t.Run("username duplicado", func(t *testing.T) {
		var e dto.ErrorResponse
		status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Username: "ana", Email: "otra@ejemplo.com", Password: testPassword,
		}, &e)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "DUPLICATE", e.Code)
	})
	t.Run("email duplicado", func(t *testing.T) {
		var e dto.ErrorResponse
		status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Username: "ana2", Email: "ANA@ejemplo.com", Password: testPassword,
		}, &e)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "EMAIL_EXISTS", e.Code)
	})
	t.Run("admin no se auto-registra", func(t *testing.T) {
		var e dto.ErrorResponse
		status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Username: "mallory", Email: "m@ejemplo.com", Password: testPassword, Role: "admin",
		}, &e)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", e.Code)
	})
	t.Run("password corto", func(t *testing.T) {
		var e dto.ErrorResponse
		status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Username: "beto", Email: "b@ejemplo.com", Password: "123",
		}, &e)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", e.Code)
	})
	t.Run("password incorrecto", func(t *testing.T) {
		var e dto.ErrorResponse
		status := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "incorrecta"}, &e)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "UNAUTHORIZED", e.Code)
	})
}

func TestStockMovements_FlujoDirecto(t *testing.T) {
	s := newServer(t)
	owner, _ := s.register(t, "owner", "warehouse_owner", "Cali")
	norte := s.createWarehouse(t, owner, "Norte", "Bogotá")
	sur := s.createWarehouse(t, owner, "Sur", "Cali")
	product := s.createProduct(t, owner, "TOR-1")

	var created dto.MovementCreatedResponse
	status := s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
		ProductID: product, WarehouseID: norte, MovementType: "in", Quantity: 10,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created.MovementID)
	assert.Equal(t, int64(10), created.Movement.Quantity)

	t.Run("salida mayor al stock", func(t *testing.T) {
		var e dto.InsufficientStockResponse
		status := s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
			ProductID: product, WarehouseID: norte, MovementType: "out", Quantity: 15,
		}, &e)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
		assert.Equal(t, int64(10), e.CurrentStock)
		assert.Equal(t, int64(15), e.Requested)
	})

	t.Run("cantidad cero", func(t *testing.T) {
		var e dto.ErrorResponse
		status := s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
			ProductID: product, WarehouseID: norte, MovementType: "in", Quantity: 0,
		}, &e)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", e.Code)
	})

	var tr dto.TransferResponse
	status = s.do(t, http.MethodPost, "/api/stock-movements/transfers", owner, dto.TransferRequest{
		ProductID: product, FromWarehouseID: norte, ToWarehouseID: sur, Quantity: 4,
	}, &tr)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, tr.ReferenceID)
	assert.NotEqual(t, tr.FromID, tr.ToID)

	var dist dto.StockDistributionResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-movements/stock/"+product, owner, nil, &dist))
	assert.Equal(t, int64(10), dist.TotalStock)
	require.Len(t, dist.Warehouses, 2)
	assert.Equal(t, "Norte", dist.Warehouses[0].WarehouseName)
	assert.Equal(t, int64(6), dist.Warehouses[0].Stock)
	assert.Equal(t, int64(4), dist.Warehouses[1].Stock)

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-movements?warehouse_id="+norte, owner, nil, &list))
	assert.Len(t, list.Items, 2, "entrada inicial y pata de salida del traslado")

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/stock-movements?movement_type=transfer", owner, nil, &e))
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestStockMovements_ErroresDeDominio(t *testing.T) {
	s := newServer(t)
	owner, _ := s.register(t, "owner", "warehouse_owner", "Cali")
	other, _ := s.register(t, "otro", "warehouse_owner", "Cali")
	norte := s.createWarehouse(t, owner, "Norte", "Bogotá")
	ajena := s.createWarehouse(t, other, "Ajena", "Cali")
	product := s.createProduct(t, owner, "TOR-1")

	t.Run("bodega no disponible", func(t *testing.T) {
		var w dto.WarehouseResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/api/warehouses/"+norte+"/availability", owner, map[string]any{"is_available": false}, &w))
		assert.False(t, w.IsAvailable)

		var e dto.ErrorResponse
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
			ProductID: product, WarehouseID: norte, MovementType: "in", Quantity: 1,
		}, &e))
		assert.Equal(t, "WAREHOUSE_UNAVAILABLE", e.Code)

		require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/api/warehouses/"+norte+"/availability", owner, map[string]any{"is_available": true}, nil))
	})

	t.Run("bodega de otro propietario", func(t *testing.T) {
		var e dto.ErrorResponse
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
			ProductID: product, WarehouseID: ajena, MovementType: "in", Quantity: 1,
		}, &e))
		assert.Equal(t, "FORBIDDEN", e.Code)
	})

	t.Run("bodega inexistente", func(t *testing.T) {
		var e dto.ErrorResponse
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
			ProductID: product, WarehouseID: "00000000-0000-0000-0000-00000000dead", MovementType: "in", Quantity: 1,
		}, &e))
		assert.Equal(t, "NOT_FOUND", e.Code)
	})

	t.Run("producto desactivado", func(t *testing.T) {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/products/"+product, owner, nil, nil))
		var e dto.ErrorResponse
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/stock-movements", owner, dto.CreateMovementRequest{
			ProductID: product, WarehouseID: norte, MovementType: "in", Quantity: 1,
		}, &e))
		assert.Equal(t, "PRODUCT_INACTIVE", e.Code)
	})

	t.Run("sin token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/stock-movements", "", nil, nil))
	})
}

func TestStockRequests_FlujoDeAprobacion(t *testing.T) {
	s := newServer(t)
	owner, _ := s.register(t, "owner", "warehouse_owner", "Cali")
	user, _ := s.register(t, "user", "user", "Bogotá")
	norte := s.createWarehouse(t, owner, "Norte", "Bogotá")
	product := s.createProduct(t, user, "TUE-1")

	var req dto.StockRequestResponse
	status := s.do(t, http.MethodPost, "/api/stock-requests", user, dto.CreateStockRequest{
		ProductID: product, MovementType: "in", WarehouseID: norte, Quantity: 7,
	}, &req)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", req.Status)

	// Sin aprobar no hay stock.
	var dist dto.StockDistributionResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-movements/stock/"+product, user, nil, &dist))
	assert.Zero(t, dist.TotalStock)

	// El user no decide solicitudes.
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/stock-requests/"+req.ID+"/approve", user, nil, nil))
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/stock-requests/pending", user, nil, nil))

	var pending dto.StockRequestListResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-requests/pending", owner, nil, &pending))
	require.Len(t, pending.Items, 1)
	assert.Equal(t, req.ID, pending.Items[0].ID)

	var approved dto.ApproveStockRequestResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/stock-requests/"+req.ID+"/approve", owner, nil, &approved))
	assert.Equal(t, "approved", approved.Status)
	assert.Len(t, approved.MovementIDs, 1)
	assert.NotNil(t, approved.Request.ApprovedAt)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-movements/stock/"+product, user, nil, &dist))
	assert.Equal(t, int64(7), dist.TotalStock)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/stock-requests/"+req.ID+"/approve", owner, nil, &e))
	assert.Equal(t, "INVALID_STATE", e.Code)

	var mine dto.StockRequestListResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-requests/mine", user, nil, &mine))
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "approved", mine.Items[0].Status)
}

func TestStockRequests_RechazoCancelacionYLimpieza(t *testing.T) {
	s := newServer(t)
	admin := s.admin(t)
	owner, _ := s.register(t, "owner", "warehouse_owner", "Cali")
	user, _ := s.register(t, "user", "user", "Bogotá")
	norte := s.createWarehouse(t, owner, "Norte", "Bogotá")
	product := s.createProduct(t, user, "TUE-1")

	submit := func() string {
		var r dto.StockRequestResponse
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/stock-requests", user, dto.CreateStockRequest{
			ProductID: product, MovementType: "in", WarehouseID: norte, Quantity: 3,
		}, &r))
		return r.ID
	}

	t.Run("salida sin stock", func(t *testing.T) {
		var e dto.InsufficientStockResponse
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/stock-requests", user, dto.CreateStockRequest{
			ProductID: product, MovementType: "out", WarehouseID: norte, Quantity: 1,
		}, &e))
		assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	})

	t.Run("traslado sin destino", func(t *testing.T) {
		var e dto.ErrorResponse
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/stock-requests", user, dto.CreateStockRequest{
			ProductID: product, MovementType: "transfer", FromWarehouseID: norte, Quantity: 1,
		}, &e))
		assert.Equal(t, "VALIDATION", e.Code)
	})

	t.Run("rechazo con motivo", func(t *testing.T) {
		id := submit()
		var r dto.StockRequestResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/stock-requests/"+id+"/reject", owner, dto.RejectStockRequest{Reason: "sin espacio"}, &r))
		assert.Equal(t, "rejected", r.Status)
		assert.Equal(t, "sin espacio", r.RejectionReason)

		// Una rechazada se puede cancelar.
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/stock-requests/"+id, user, nil, nil))
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/stock-requests/"+id, user, nil, nil))
	})

	t.Run("rechazo sin body", func(t *testing.T) {
		id := submit()
		var r dto.StockRequestResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/stock-requests/"+id+"/reject", owner, nil, &r))
		assert.Equal(t, "rejected", r.Status)
	})

	t.Run("solo el solicitante cancela", func(t *testing.T) {
		id := submit()
		var e dto.ErrorResponse
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/stock-requests/"+id, owner, nil, &e))
		assert.Equal(t, "FORBIDDEN", e.Code)
	})

	t.Run("limpieza masiva solo admin", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/stock-requests/pending", owner, nil, nil))

		var out dto.ClearPendingResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/stock-requests/pending", admin, nil, &out))
		assert.Equal(t, int64(1), out.Deleted)

		var pending dto.StockRequestListResponse
		require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/stock-requests/pending", admin, nil, &pending))
		assert.Empty(t, pending.Items)
	})
}

func TestWarehouses_VisibilidadYAsignaciones(t *testing.T) {
	s := newServer(t)
	owner, _ := s.register(t, "owner", "warehouse_owner", "Cali")
	user, userID := s.register(t, "user", "user", "Bogotá")
	norte := s.createWarehouse(t, owner, "Norte", "Bogotá")
	sur := s.createWarehouse(t, owner, "Sur", "Cali")

	t.Run("user no crea bodegas", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/warehouses", user, map[string]any{"name": "Mía", "location": "Bogotá"}, nil))
	})

	t.Run("nombre duplicado", func(t *testing.T) {
		var e dto.ErrorResponse
		assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/warehouses", owner, map[string]any{"name": "Norte", "location": "Pasto"}, &e))
		assert.Equal(t, "DUPLICATE", e.Code)
	})

	var list dto.WarehouseListResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/warehouses", user, nil, &list))
	require.Len(t, list.Items, 1, "solo la bodega de su ubicación")
	assert.Equal(t, norte, list.Items[0].ID)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/warehouses/"+sur, user, nil, nil))

	var a dto.AssignmentResponse
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/assignments", owner, dto.CreateAssignmentRequest{UserID: userID, WarehouseID: sur}, &a))
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/assignments", owner, dto.CreateAssignmentRequest{UserID: userID, WarehouseID: sur}, nil))
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/assignments", user, dto.CreateAssignmentRequest{UserID: userID, WarehouseID: sur}, nil))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/warehouses", user, nil, &list))
	assert.Len(t, list.Items, 2)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/warehouses/"+sur, user, nil, nil))

	var assigned []dto.AssignmentResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/assignments/warehouse/"+sur, owner, nil, &assigned))
	require.Len(t, assigned, 1)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/assignments/"+a.ID, owner, nil, nil))
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/warehouses/"+sur, user, nil, nil))
}
