package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/access"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RequestWorkflowUseCase gestiona solicitudes de movimiento: enviar, aprobar, rechazar y cancelar.
// Una solicitud no toca el ledger hasta que se aprueba; la aprobación reutiliza el motor del ledger
// dentro de la misma transacción que cambia el estado.
type RequestWorkflowUseCase struct {
	txRunner TxRunner
	ledger   *LedgerUseCase
	requests repository.MovementRequestRepository
	now      func() time.Time
}

// NewRequestWorkflowUseCase construye el caso de uso.
func NewRequestWorkflowUseCase(txRunner TxRunner, ledger *LedgerUseCase, requests repository.MovementRequestRepository) *RequestWorkflowUseCase {
	return &RequestWorkflowUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		requests: requests,
		now:      time.Now,
	}
}

// SubmitInput datos de una solicitud nueva. Para in/out se usa WarehouseID;
// para transfer, FromWarehouseID y ToWarehouseID.
type SubmitInput struct {
	ProductID       string
	Type            entity.RequestType
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Notes           string
}

// ApprovalResult solicitud aprobada y los movimientos que generó.
type ApprovalResult struct {
	Request   *entity.MovementRequest
	Movements []*entity.Movement
}

// RequestQuery paginación para los listados de solicitudes.
type RequestQuery struct {
	Limit  int
	Offset int
}

// Submit valida la solicitud y la guarda en estado pending. El chequeo de stock en salidas
// y traslados es orientativo: se repite al aprobar.
func (uc *RequestWorkflowUseCase) Submit(ctx context.Context, actor access.Actor, input SubmitInput) (*entity.MovementRequest, error) {
	if err := validateSubmit(input); err != nil {
		return nil, err
	}

	var req *entity.MovementRequest
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		product, err := loadProduct(ctx, repos.Products, input.ProductID)
		if err != nil {
			return err
		}
		if !access.CanAccessProduct(actor, product) {
			return domain.ErrForbidden
		}

		var responsible *entity.Warehouse
		switch input.Type {
		case entity.RequestTypeIn, entity.RequestTypeOut:
			wh, err := loadWarehouse(ctx, repos.Warehouses, input.WarehouseID)
			if err != nil {
				return err
			}
			if input.Type == entity.RequestTypeIn && !wh.IsAvailable {
				return fmt.Errorf("entrada a bodega %s: %w", wh.ID, domain.ErrUnavailable)
			}
			if !wh.HasOwner() {
				return domain.ErrNoApprover
			}
			if input.Type == entity.RequestTypeOut {
				if err := checkStock(ctx, repos.Movements, product.ID, wh.ID, input.Quantity); err != nil {
					return err
				}
			}
			responsible = wh
		case entity.RequestTypeTransfer:
			from, err := loadWarehouse(ctx, repos.Warehouses, input.FromWarehouseID)
			if err != nil {
				return err
			}
			to, err := loadWarehouse(ctx, repos.Warehouses, input.ToWarehouseID)
			if err != nil {
				return err
			}
			if !from.IsAvailable || !to.IsAvailable {
				return fmt.Errorf("traslado %s -> %s: %w", from.ID, to.ID, domain.ErrUnavailable)
			}
			if !to.HasOwner() {
				return domain.ErrNoApprover
			}
			if err := checkStock(ctx, repos.Movements, product.ID, from.ID, input.Quantity); err != nil {
				return err
			}
			responsible = to
		}

		now := uc.now()
		req = &entity.MovementRequest{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Notes:     input.Notes,
			Status:    entity.RequestStatusPending,
			UserID:    actor.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if input.Type == entity.RequestTypeTransfer {
			req.FromWarehouseID = input.FromWarehouseID
			req.ToWarehouseID = responsible.ID
		} else {
			req.WarehouseID = responsible.ID
		}
		return repos.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Approve bloquea la solicitud, verifica que siga pendiente y que el actor pueda decidirla,
// y materializa los movimientos con el solicitante como autor. Si el stock ya no alcanza,
// la transacción se revierte y la solicitud queda pendiente.
func (uc *RequestWorkflowUseCase) Approve(ctx context.Context, approver access.Actor, requestID string) (*ApprovalResult, error) {
	if requestID == "" {
		return nil, domain.ErrInvalidInput
	}

	var res *ApprovalResult
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		req, err := uc.lockDecidable(ctx, repos, approver, requestID)
		if err != nil {
			return err
		}
		product, err := loadProduct(ctx, repos.Products, req.ProductID)
		if err != nil {
			return err
		}

		res = &ApprovalResult{Request: req}
		switch req.Type {
		case entity.RequestTypeIn, entity.RequestTypeOut:
			wh, err := loadWarehouse(ctx, repos.Warehouses, req.WarehouseID)
			if err != nil {
				return err
			}
			mov, err := uc.ledger.appendMovement(ctx, repos, product, wh, entity.MovementType(req.Type), req.Quantity, req.UserID, req.Notes)
			if err != nil {
				return err
			}
			res.Movements = []*entity.Movement{mov}
		case entity.RequestTypeTransfer:
			from, err := loadWarehouse(ctx, repos.Warehouses, req.FromWarehouseID)
			if err != nil {
				return err
			}
			to, err := loadWarehouse(ctx, repos.Warehouses, req.ToWarehouseID)
			if err != nil {
				return err
			}
			tr, err := uc.ledger.appendTransfer(ctx, repos, product, from, to, req.Quantity, req.UserID, req.Notes)
			if err != nil {
				return err
			}
			req.ReferenceID = tr.ReferenceID
			res.Movements = []*entity.Movement{tr.Out, tr.In}
		default:
			return fmt.Errorf("tipo de solicitud %q: %w", req.Type, domain.ErrInvalidState)
		}

		now := uc.now()
		req.Status = entity.RequestStatusApproved
		req.ApprovedBy = approver.UserID
		req.ApprovedAt = &now
		req.UpdatedAt = now
		return repos.Requests.UpdateDecision(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	warehouseIDs := make([]string, 0, len(res.Movements))
	for _, m := range res.Movements {
		warehouseIDs = append(warehouseIDs, m.WarehouseID)
	}
	uc.ledger.invalidate(ctx, res.Request.ProductID, warehouseIDs...)
	return res, nil
}

// Reject marca la solicitud como rechazada con un motivo. No toca el ledger.
func (uc *RequestWorkflowUseCase) Reject(ctx context.Context, approver access.Actor, requestID, reason string) (*entity.MovementRequest, error) {
	if requestID == "" {
		return nil, domain.ErrInvalidInput
	}

	var req *entity.MovementRequest
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		req, err = uc.lockDecidable(ctx, repos, approver, requestID)
		if err != nil {
			return err
		}
		req.Status = entity.RequestStatusRejected
		req.RejectionReason = reason
		req.UpdatedAt = uc.now()
		return repos.Requests.UpdateDecision(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Cancel elimina una solicitud propia que esté pendiente o rechazada.
func (uc *RequestWorkflowUseCase) Cancel(ctx context.Context, requester access.Actor, requestID string) error {
	if requestID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(repos Repositories) error {
		req, err := repos.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("solicitud %s: %w", requestID, domain.ErrNotFound)
		}
		if req.UserID != requester.UserID {
			return domain.ErrForbidden
		}
		if !req.Cancellable() {
			return fmt.Errorf("solicitud %s en estado %s: %w", req.ID, req.Status, domain.ErrInvalidState)
		}
		return repos.Requests.Delete(ctx, req.ID)
	})
}

// ClearAllPending elimina todas las solicitudes pendientes. Solo admin.
func (uc *RequestWorkflowUseCase) ClearAllPending(ctx context.Context, actor access.Actor) (int64, error) {
	if !access.CanClearPendingRequests(actor) {
		return 0, domain.ErrForbidden
	}
	return uc.requests.DeleteByStatus(ctx, entity.RequestStatusPending)
}

// ListPendingForApprover lista las pendientes que el actor puede decidir:
// todas para admin, las de sus bodegas para warehouse_owner.
func (uc *RequestWorkflowUseCase) ListPendingForApprover(ctx context.Context, actor access.Actor, q RequestQuery) ([]*entity.MovementRequest, error) {
	filter := repository.RequestFilter{
		Status: entity.RequestStatusPending,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	switch access.PendingRequestScope(actor) {
	case access.ScopeAll:
	case access.ScopeOwned:
		filter.ResponsibleOwnerID = actor.UserID
	default:
		return nil, domain.ErrForbidden
	}
	return uc.requests.List(ctx, filter)
}

// ListMine lista las solicitudes enviadas por el actor, en cualquier estado.
func (uc *RequestWorkflowUseCase) ListMine(ctx context.Context, actor access.Actor, q RequestQuery) ([]*entity.MovementRequest, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.requests.List(ctx, repository.RequestFilter{
		UserID: actor.UserID,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// lockDecidable bloquea la solicitud y comprueba permiso de decisión y estado pendiente.
func (uc *RequestWorkflowUseCase) lockDecidable(ctx context.Context, repos Repositories, approver access.Actor, requestID string) (*entity.MovementRequest, error) {
	req, err := repos.Requests.GetForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud %s: %w", requestID, domain.ErrNotFound)
	}
	responsible, err := repos.Warehouses.GetByID(ctx, req.ResponsibleWarehouseID())
	if err != nil {
		return nil, err
	}
	if !access.CanDecideRequest(approver, responsible) {
		return nil, domain.ErrForbidden
	}
	if !req.IsPending() {
		return nil, fmt.Errorf("solicitud %s en estado %s: %w", req.ID, req.Status, domain.ErrInvalidState)
	}
	return req, nil
}

func validateSubmit(in SubmitInput) error {
	if in.ProductID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.RequestTypeIn, entity.RequestTypeOut:
		if in.WarehouseID == "" {
			return domain.ErrInvalidInput
		}
	case entity.RequestTypeTransfer:
		if in.FromWarehouseID == "" || in.ToWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if in.FromWarehouseID == in.ToWarehouseID {
			return fmt.Errorf("origen y destino iguales: %w", domain.ErrInvalidState)
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
