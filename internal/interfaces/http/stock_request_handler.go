package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockRequestHandler flujo de solicitudes de movimiento (protegido).
type StockRequestHandler struct {
	uc *inventory.RequestWorkflowUseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *inventory.RequestWorkflowUseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar solicitud de movimiento
// @Description  Queda pending hasta que el propietario de la bodega responsable (o un admin) la apruebe.
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "product_id, movement_type (in|out|transfer), bodegas, quantity"
// @Success      201   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Submit(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	req, err := h.uc.Submit(c.UserContext(), actor, inventory.SubmitInputFromRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToStockRequestResponse(req))
}

// ListMine godoc
// @Summary      Mis solicitudes
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.StockRequestListResponse
// @Router       /api/stock-requests/mine [get]
func (h *StockRequestHandler) ListMine(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	list, err := h.uc.ListMine(c.UserContext(), actor, inventory.RequestQuery{Limit: limit, Offset: offset})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequestList(list, limit, offset))
}

// ListPending godoc
// @Summary      Solicitudes pendientes por decidir
// @Description  admin ve todas; warehouse_owner las de sus bodegas.
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.StockRequestListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/pending [get]
func (h *StockRequestHandler) ListPending(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	list, err := h.uc.ListPendingForApprover(c.UserContext(), actor, inventory.RequestQuery{Limit: limit, Offset: offset})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequestList(list, limit, offset))
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Description  Genera los movimientos a nombre del solicitante. Si el stock ya no alcanza, la solicitud sigue pending.
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ApproveStockRequestResponse
// @Failure      400  {object}  dto.InsufficientStockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/approve [post]
func (h *StockRequestHandler) Approve(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := h.uc.Approve(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	ids := make([]string, 0, len(res.Movements))
	for _, m := range res.Movements {
		ids = append(ids, m.ID)
	}
	return c.JSON(dto.ApproveStockRequestResponse{
		Status:      string(res.Request.Status),
		Request:     inventory.ToStockRequestResponse(res.Request),
		MovementIDs: ids,
	})
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID de la solicitud"
// @Param        body  body  dto.RejectStockRequest  false  "reason"
// @Success      200   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/reject [post]
func (h *StockRequestHandler) Reject(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RejectStockRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	req, err := h.uc.Reject(c.UserContext(), actor, c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToStockRequestResponse(req))
}

// Cancel godoc
// @Summary      Cancelar solicitud propia
// @Description  Solo el solicitante, y solo si está pending o rejected.
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [delete]
func (h *StockRequestHandler) Cancel(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Cancel(c.UserContext(), actor, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "solicitud cancelada"})
}

// ClearPending godoc
// @Summary      Borrar todas las solicitudes pendientes
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearPendingResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/pending [delete]
func (h *StockRequestHandler) ClearPending(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.ClearAllPending(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ClearPendingResponse{Deleted: n})
}

func toRequestList(list []*entity.MovementRequest, limit, offset int) dto.StockRequestListResponse {
	out := dto.StockRequestListResponse{
		Items: make([]dto.StockRequestResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range list {
		out.Items = append(out.Items, inventory.ToStockRequestResponse(r))
	}
	return out
}
