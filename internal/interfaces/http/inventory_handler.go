package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryHandler maneja los movimientos directos del ledger y las consultas de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RecordMovement godoc
// @Summary      Registrar movimiento directo
// @Description  Entrada (in) o salida (out) inmediata. quantity es la magnitud; el signo lo decide movement_type.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, warehouse_id, movement_type, quantity"
// @Success      201   {object}  dto.MovementCreatedResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	mov, err := h.ledger.RecordMovement(c.UserContext(), actor, inventory.MovementInputFromRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementCreatedResponse{
		Message:    "movimiento registrado",
		MovementID: mov.ID,
		Movement:   inventory.ToMovementResponse(mov),
	})
}

// RecordTransfer godoc
// @Summary      Trasladar stock entre bodegas
// @Description  Registra la salida en origen y la entrada en destino en una sola transacción, con el mismo reference_id.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.InsufficientStockResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-movements/transfers [post]
func (h *InventoryHandler) RecordTransfer(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.ledger.RecordTransfer(c.UserContext(), actor, inventory.TransferInputFromRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Message:     "traslado registrado",
		ReferenceID: res.ReferenceID,
		FromID:      res.Out.ID,
		ToID:        res.In.ID,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  admin ve todo; warehouse_owner los de sus bodegas; user los propios. Más recientes primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Filtrar por producto"
// @Param        warehouse_id   query  string  false  "Filtrar por bodega"
// @Param        movement_type  query  string  false  "in | out"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	list, err := h.ledger.ListMovements(c.UserContext(), actor, inventory.MovementQuery{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        entity.MovementType(c.Query("movement_type")),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, inventory.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// StockDistribution godoc
// @Summary      Stock de un producto por bodega
// @Description  Solo bodegas visibles para el usuario y con stock positivo, ordenadas por nombre.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockDistributionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/stock/{product_id} [get]
func (h *InventoryHandler) StockDistribution(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	dist, err := h.ledger.StockDistribution(c.UserContext(), actor, c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToStockDistributionResponse(dist))
}
