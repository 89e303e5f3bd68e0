package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Operations OperationRepository
	Sequences  SequenceRepository
	Stock      StockLevelRepository
	Ledger     LedgerRepository
	Products   ProductRepository
	Locations  LocationRepository
	Partners   PartnerRepository
	Savepoints SavepointRunner
}

// SavepointRunner aísla un bloque dentro de la transacción: si fn falla se deshace solo el
// bloque y la transacción sigue usable (en PostgreSQL un error aborta la tx completa).
type SavepointRunner interface {
	Savepoint(ctx context.Context, fn func() error) error
}
