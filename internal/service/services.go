package service

import (
	"github.com/deppfellow/ledger/internal/database"
	"github.com/deppfellow/ledger/internal/repository"
	"github.com/rs/zerolog"
)

// Services groups the business-facing stores.
type Services struct {
	Transactions *TransactionStore
}

// NewServices wires every store onto the shared lazy pool.
func NewServices(db *database.Lazy, repos *repository.Repositories, logger *zerolog.Logger) *Services {
	return &Services{
		Transactions: NewTransactionStore(db, repos.Transactions, logger),
	}
}
