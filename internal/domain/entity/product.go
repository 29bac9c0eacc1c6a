package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU. SKU y Name son únicos por propietario.
// El stock no vive aquí: se deriva del ledger de movimientos por bodega.
type Product struct {
	ID          string
	OwnerID     string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy indica si userID es el propietario del producto.
func (p *Product) IsOwnedBy(userID string) bool {
	return p.OwnerID != "" && p.OwnerID == userID
}
