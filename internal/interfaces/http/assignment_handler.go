package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// AssignmentHandler asignaciones usuario-bodega (protegido).
type AssignmentHandler struct {
	uc *usecase.AssignmentUseCase
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(uc *usecase.AssignmentUseCase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// Create godoc
// @Summary      Asignar usuario a bodega
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssignmentRequest  true  "user_id, warehouse_id"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assignments [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateAssignmentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Assign(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByWarehouse godoc
// @Summary      Listar asignaciones de una bodega
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bodega"
// @Success      200  {array}   dto.AssignmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/assignments/warehouse/{id} [get]
func (h *AssignmentHandler) ListByWarehouse(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListByWarehouse(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Quitar asignación
// @Tags         assignments
// @Security     Bearer
// @Param        id   path  string  true  "ID de la asignación"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Remove(c.UserContext(), actor, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
