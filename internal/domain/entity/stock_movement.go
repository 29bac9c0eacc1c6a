package entity

import "time"

// MovementType tipo de un asiento del ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIn          MovementType = "in"           // entrada
	MovementTypeOut         MovementType = "out"          // salida
	MovementTypeTransferIn  MovementType = "transfer_in"  // pata de entrada de un traslado
	MovementTypeTransferOut MovementType = "transfer_out" // pata de salida de un traslado
)

// Valid indica si t es un tipo de movimiento conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransferIn, MovementTypeTransferOut:
		return true
	}
	return false
}

// Movement es un asiento inmutable del ledger de stock.
// Quantity es con signo: positivo entra, negativo sale. El stock actual de (producto, bodega)
// es la suma de Quantity de todos sus movimientos.
// ReferenceID agrupa las dos patas de un traslado; vacío en entradas/salidas simples.
type Movement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Type        MovementType
	Quantity    int64
	ReferenceID string
	Notes       string
	UserID      string
	CreatedAt   time.Time
}
