// Package memory implementa todos los repositorios y el TxRunner en memoria.
// Se usa con STORAGE_DRIVER=memory y como fake en los tests de casos de uso y handlers.
// Cada transacción trabaja sobre una copia del estado y la publica solo al terminar sin error.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type levelKey struct {
	productID  string
	locationID string
}

type state struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	uoms       map[string]entity.UnitOfMeasure
	partners   map[string]entity.Partner
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.Location
	users      map[string]entity.User
	operations map[string]entity.Operation
	opSeq      map[string]int64 // orden de creación de operaciones
	lines      map[string][]entity.OperationLine
	sequences  map[repository.SequenceScope]int
	levels     map[levelKey]entity.StockLevel
	ledger     []entity.StockLedgerEntry
	counter    int64
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		uoms:       map[string]entity.UnitOfMeasure{},
		partners:   map[string]entity.Partner{},
		warehouses: map[string]entity.Warehouse{},
		locations:  map[string]entity.Location{},
		users:      map[string]entity.User{},
		operations: map[string]entity.Operation{},
		opSeq:      map[string]int64{},
		lines:      map[string][]entity.OperationLine{},
		sequences:  map[repository.SequenceScope]int{},
		levels:     map[levelKey]entity.StockLevel{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.uoms {
		c.uoms[k] = v
	}
	for k, v := range s.partners {
		c.partners[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.operations {
		c.operations[k] = v
	}
	for k, v := range s.opSeq {
		c.opSeq[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entity.OperationLine(nil), v...)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	c.ledger = append([]entity.StockLedgerEntry(nil), s.ledger...)
	c.counter = s.counter
	return c
}

func (s *state) next() int64 {
	s.counter++
	return s.counter
}

// access abstrae si un repositorio trabaja sobre el estado publicado (con lock) o sobre
// la copia de una transacción en curso (el lock ya lo tiene Run).
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store estado en memoria protegido por un mutex. Implementa TxRunner.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

type txAccess struct{ st *state }

func (t txAccess) read(fn func(st *state) error) error  { return fn(t.st) }
func (t txAccess) write(fn func(st *state) error) error { return fn(t.st) }

// Run serializa las transacciones: fn trabaja sobre una copia y solo se publica si no hay error.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(txAccess{st: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

func reposFor(db access) repository.TxRepos {
	return repository.TxRepos{
		Operations: &OperationRepo{db: db},
		Sequences:  &SequenceRepo{db: db},
		Stock:      &StockRepo{db: db},
		Ledger:     &LedgerRepo{db: db},
		Products:   &ProductRepo{db: db},
		Locations:  &LocationRepo{db: db},
		Partners:   &PartnerRepo{db: db},
		Savepoints: savepoints{},
	}
}

// savepoints en memoria las lecturas no dejan la tx inválida; basta con ejecutar fn.
type savepoints struct{}

func (savepoints) Savepoint(_ context.Context, fn func() error) error { return fn() }

// Repositorios fuera de transacción sobre el estado publicado.

func (s *Store) Products() *ProductRepo             { return &ProductRepo{db: s} }
func (s *Store) Categories() *CategoryRepo         { return &CategoryRepo{db: s} }
func (s *Store) UnitsOfMeasure() *UnitOfMeasureRepo { return &UnitOfMeasureRepo{db: s} }
func (s *Store) Partners() *PartnerRepo             { return &PartnerRepo{db: s} }
func (s *Store) Warehouses() *WarehouseRepo         { return &WarehouseRepo{db: s} }
func (s *Store) Locations() *LocationRepo           { return &LocationRepo{db: s} }
func (s *Store) Users() *UserRepo                   { return &UserRepo{db: s} }
func (s *Store) Operations() *OperationRepo         { return &OperationRepo{db: s} }
func (s *Store) Stock() *StockRepo                  { return &StockRepo{db: s} }
func (s *Store) Ledger() *LedgerRepo                { return &LedgerRepo{db: s} }
func (s *Store) Reports() *ReportRepo               { return &ReportRepo{db: s} }

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDec(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
