// Package access concentra las reglas de autorización por rol y propiedad.
// Son funciones puras: no consultan la base de datos; el caller les pasa los hechos
// (propietarios, asignaciones) ya cargados.
package access

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// Actor es el usuario autenticado que ejecuta una operación.
type Actor struct {
	UserID   string
	Role     entity.Role
	Location string
}

// ActorFromUser construye el Actor a partir del usuario persistido.
func ActorFromUser(u *entity.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, Location: u.Location}
}

// IsAdmin indica si el actor es administrador.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// Scope alcance de lectura de un listado según el rol.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeAll
	ScopeOwned    // recursos de bodegas propias
	ScopeOwn      // recursos creados por el actor
	ScopeAssigned // bodegas por ubicación o asignación explícita
)

// CanAccessProduct: el admin accede a cualquier producto; el resto solo a los propios.
func CanAccessProduct(a Actor, p *entity.Product) bool {
	if p == nil {
		return false
	}
	switch a.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleWarehouseOwner, entity.RoleUser:
		return p.IsOwnedBy(a.UserID)
	}
	return false
}

// CanRecordDirect autoriza un movimiento o traslado directo (sin solicitud).
// El producto debe ser del actor salvo admin; el warehouse_owner además debe ser dueño
// de todas las bodegas involucradas. El rol user no tiene restricción de bodega:
// propiedad del producto y disponibilidad de la bodega son los únicos límites.
func CanRecordDirect(a Actor, p *entity.Product, warehouses ...*entity.Warehouse) bool {
	if !CanAccessProduct(a, p) {
		return false
	}
	switch a.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleWarehouseOwner:
		for _, w := range warehouses {
			if w == nil || !w.IsOwnedBy(a.UserID) {
				return false
			}
		}
		return true
	case entity.RoleUser:
		return true
	}
	return false
}

// CanDecideRequest autoriza aprobar o rechazar una solicitud. responsible es la bodega
// de la solicitud (destino en traslados).
func CanDecideRequest(a Actor, responsible *entity.Warehouse) bool {
	switch a.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleWarehouseOwner:
		return responsible != nil && responsible.IsOwnedBy(a.UserID)
	case entity.RoleUser:
		return false
	}
	return false
}

// CanViewWarehouse: admin siempre; warehouse_owner solo sus bodegas; user si la ubicación
// coincide con la suya o tiene una asignación explícita.
func CanViewWarehouse(a Actor, w *entity.Warehouse, assigned bool) bool {
	if w == nil {
		return false
	}
	switch a.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleWarehouseOwner:
		return w.IsOwnedBy(a.UserID)
	case entity.RoleUser:
		return assigned || w.Location == a.Location
	}
	return false
}

// CanCreateWarehouse: solo admin y warehouse_owner crean bodegas.
func CanCreateWarehouse(a Actor) bool {
	switch a.Role {
	case entity.RoleAdmin, entity.RoleWarehouseOwner:
		return true
	case entity.RoleUser:
		return false
	}
	return false
}

// CanManageWarehouse autoriza cambiar disponibilidad y gestionar asignaciones.
func CanManageWarehouse(a Actor, w *entity.Warehouse) bool {
	if w == nil {
		return false
	}
	switch a.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleWarehouseOwner:
		return w.IsOwnedBy(a.UserID)
	case entity.RoleUser:
		return false
	}
	return false
}

// CanClearPendingRequests: la limpieza masiva es exclusiva del admin.
func CanClearPendingRequests(a Actor) bool { return a.IsAdmin() }

// MovementScope alcance del historial de movimientos: admin todo, warehouse_owner los de sus
// bodegas, user los que registró él mismo.
func MovementScope(a Actor) Scope {
	switch a.Role {
	case entity.RoleAdmin:
		return ScopeAll
	case entity.RoleWarehouseOwner:
		return ScopeOwned
	case entity.RoleUser:
		return ScopeOwn
	}
	return ScopeNone
}

// WarehouseScope alcance de bodegas visibles (mismo criterio que CanViewWarehouse).
func WarehouseScope(a Actor) Scope {
	switch a.Role {
	case entity.RoleAdmin:
		return ScopeAll
	case entity.RoleWarehouseOwner:
		return ScopeOwned
	case entity.RoleUser:
		return ScopeAssigned
	}
	return ScopeNone
}

// PendingRequestScope alcance de la bandeja de aprobación.
func PendingRequestScope(a Actor) Scope {
	switch a.Role {
	case entity.RoleAdmin:
		return ScopeAll
	case entity.RoleWarehouseOwner:
		return ScopeOwned
	case entity.RoleUser:
		return ScopeNone
	}
	return ScopeNone
}

// ProductScope alcance del catálogo de productos.
func ProductScope(a Actor) Scope {
	switch a.Role {
	case entity.RoleAdmin:
		return ScopeAll
	case entity.RoleWarehouseOwner, entity.RoleUser:
		return ScopeOwn
	}
	return ScopeNone
}
