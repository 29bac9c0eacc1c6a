package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementInputFromRequest adapta el body HTTP de un movimiento directo a MovementInput.
func MovementInputFromRequest(in dto.CreateMovementRequest) MovementInput {
	return MovementInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        entity.MovementType(in.MovementType),
		Quantity:    in.Quantity,
		Notes:       in.Notes,
	}
}

// TransferInputFromRequest adapta el body HTTP de un traslado a TransferInput.
func TransferInputFromRequest(in dto.TransferRequest) TransferInput {
	return TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
	}
}

// SubmitInputFromRequest adapta el body HTTP de una solicitud a SubmitInput.
func SubmitInputFromRequest(in dto.CreateStockRequest) SubmitInput {
	return SubmitInput{
		ProductID:       in.ProductID,
		Type:            entity.RequestType(in.MovementType),
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
	}
}

// ToMovementResponse convierte un asiento del ledger a su DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		WarehouseID:  m.WarehouseID,
		MovementType: string(m.Type),
		Quantity:     m.Quantity,
		ReferenceID:  m.ReferenceID,
		Notes:        m.Notes,
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
	}
}

// ToStockRequestResponse convierte una solicitud a su DTO.
func ToStockRequestResponse(r *entity.MovementRequest) dto.StockRequestResponse {
	return dto.StockRequestResponse{
		ID:              r.ID,
		ProductID:       r.ProductID,
		MovementType:    string(r.Type),
		WarehouseID:     r.WarehouseID,
		FromWarehouseID: r.FromWarehouseID,
		ToWarehouseID:   r.ToWarehouseID,
		Quantity:        r.Quantity,
		Notes:           r.Notes,
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		UserID:          r.UserID,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		ReferenceID:     r.ReferenceID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToStockDistributionResponse convierte el reparto de stock a su DTO.
func ToStockDistributionResponse(d *StockDistribution) dto.StockDistributionResponse {
	out := dto.StockDistributionResponse{
		ProductID:  d.ProductID,
		Warehouses: make([]dto.WarehouseStockResponse, 0, len(d.Warehouses)),
		TotalStock: d.Total,
	}
	for _, w := range d.Warehouses {
		out.Warehouses = append(out.Warehouses, dto.WarehouseStockResponse{
			WarehouseID:   w.WarehouseID,
			WarehouseName: w.Name,
			Stock:         w.Stock,
		})
	}
	return out
}
