// Package memory implementa los repositorios sobre estructuras en memoria.
// Se usa en tests y con STORE_BACKEND=memory; no persiste entre reinicios.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

type state struct {
	users       map[string]entity.User
	warehouses  map[string]entity.Warehouse
	products    map[string]entity.Product
	assignments map[string]entity.UserWarehouseAssignment
	movements   []entity.Movement
	requests    map[string]entity.MovementRequest
	requestSeq  map[string]int64
	seq         int64
}

func newState() *state {
	return &state{
		users:       map[string]entity.User{},
		warehouses:  map[string]entity.Warehouse{},
		products:    map[string]entity.Product{},
		assignments: map[string]entity.UserWarehouseAssignment{},
		requests:    map[string]entity.MovementRequest{},
		requestSeq:  map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		users:       make(map[string]entity.User, len(s.users)),
		warehouses:  make(map[string]entity.Warehouse, len(s.warehouses)),
		products:    make(map[string]entity.Product, len(s.products)),
		assignments: make(map[string]entity.UserWarehouseAssignment, len(s.assignments)),
		movements:   append([]entity.Movement(nil), s.movements...),
		requests:    make(map[string]entity.MovementRequest, len(s.requests)),
		requestSeq:  make(map[string]int64, len(s.requestSeq)),
		seq:         s.seq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.requestSeq {
		c.requestSeq[k] = v
	}
	return c
}

// Store guarda todo el estado bajo un único mutex. Las transacciones toman el mutex
// completo, así que quedan serializadas entre sí y frente a lecturas sueltas.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// lock toma el mutex salvo que el llamador ya esté dentro de una transacción.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{s: s} }

func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

func (s *Store) Assignments() repository.AssignmentRepository { return &assignmentRepo{s: s} }

func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

func (s *Store) Requests() repository.MovementRequestRepository { return &requestRepo{s: s} }

// TxRunner devuelve el runner transaccional del store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// TxRunner ejecuta callbacks con todo el store bloqueado. Si fn falla (o entra en pánico)
// el estado vuelve a la foto tomada al inicio.
type TxRunner struct {
	s *Store
}

// Run inicia una "transacción", ejecuta fn con repos atados a ella y confirma o revierte.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot := r.s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			r.s.st = snapshot
			panic(p)
		}
		if err != nil {
			r.s.st = snapshot
		}
	}()

	repos := inventory.Repositories{
		Movements:  &movementRepo{s: r.s, inTx: true},
		Requests:   &requestRepo{s: r.s, inTx: true},
		Products:   &productRepo{s: r.s, inTx: true},
		Warehouses: &warehouseRepo{s: r.s, inTx: true},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// page aplica limit/offset sobre n elementos; limit <= 0 significa sin límite.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
