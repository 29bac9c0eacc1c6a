package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "inventario-ledger-test"
	testExpMin    = 60
	testPassword  = "clave-segura-123"
)

// server API completa sobre el store en memoria.
type server struct {
	app   *fiber.App
	store *memory.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedgerUseCase(store.TxRunner(), store.Movements(), store.Products(), store.Warehouses(), store.Assignments(), nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		WarehouseUC:  usecase.NewWarehouseUseCase(store.Warehouses(), store.Assignments()),
		ProductUC:    usecase.NewProductUseCase(store.Products()),
		AssignmentUC: usecase.NewAssignmentUseCase(store.Assignments(), store.Warehouses(), store.Users()),
		Ledger:       ledger,
		Requests:     inventory.NewRequestWorkflowUseCase(store.TxRunner(), ledger, store.Requests()),
		Users:        store.Users(),
		JWTSecret:    testJWTSecret,
	})
	return &server{app: app, store: store}
}

// do lanza la petición y decodifica el body JSON en out (si no es nil).
func (s *server) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

// register crea un usuario por la API y devuelve su token.
func (s *server) register(t *testing.T, username, role, location string) (token, userID string) {
	t.Helper()
	var user dto.UserResponse
	status := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: username,
		Email:    username + "@ejemplo.com",
		Password: testPassword,
		Location: location,
		Role:     role,
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	return s.login(t, username), user.ID
}

func (s *server) login(t *testing.T, username string) string {
	t.Helper()
	var out dto.LoginResponse
	status := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: testPassword}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

// admin crea el administrador como lo hace cmd/seed y devuelve su token.
func (s *server) admin(t *testing.T) string {
	t.Helper()
	_, _, err := usecase.NewUserUseCase(s.store.Users()).EnsureAdmin(context.Background(), "root", "root@ejemplo.com", testPassword)
	require.NoError(t, err)
	return s.login(t, "root")
}

func (s *server) createWarehouse(t *testing.T, token, name, location string) string {
	t.Helper()
	var out dto.WarehouseResponse
	status := s.do(t, http.MethodPost, "/api/warehouses", token, map[string]any{"name": name, "location": location}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out.ID
}

func (s *server) createProduct(t *testing.T, token, sku string) string {
	t.Helper()
	var out dto.ProductResponse
	status := s.do(t, http.MethodPost, "/api/products", token, map[string]any{"sku": sku, "name": "Producto " + sku, "price": "1500.50"}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out.ID
}

func (s *server) move(t *testing.T, token, productID, warehouseID, typ string, qty int64) int {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/stock-movements", token, dto.CreateMovementRequest{
		ProductID: productID, WarehouseID: warehouseID, MovementType: typ, Quantity: qty,
	}, nil)
}
