package service

import (
	"context"

	"github.com/deppfellow/ledger/internal/database"
	"github.com/deppfellow/ledger/internal/errs"
	"github.com/deppfellow/ledger/internal/models"
	"github.com/deppfellow/ledger/internal/repository"
	"github.com/deppfellow/ledger/internal/sqlerr"
	"github.com/rs/zerolog"
)

// Operation names, used in logs and in StoreError.Op.
const (
	OpCreate     = "create"
	OpList       = "list"
	OpFindByID   = "find_by_id"
	OpDeleteAll  = "delete_all"
	OpDeleteByID = "delete_by_id"
)

// TransactionStore exposes the five ledger operations.
//
// It is safe for concurrent use. The pool is opened by the first
// operation and shared by all later ones; see database.Lazy.
type TransactionStore struct {
	db   *database.Lazy
	repo *repository.TransactionRepository
	log  *zerolog.Logger
}

// NewTransactionStore builds a store on top of a lazy pool.
func NewTransactionStore(db *database.Lazy, repo *repository.TransactionRepository, logger *zerolog.Logger) *TransactionStore {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &TransactionStore{db: db, repo: repo, log: logger}
}

// Create inserts a transaction and reports the generated id.
func (s *TransactionStore) Create(ctx context.Context, amount float64, description string) CreateResult {
	q, err := s.db.Acquire(ctx)
	if err != nil {
		return CreateResult{Err: s.fail(OpCreate, err)}
	}

	id, err := s.repo.Create(ctx, q, amount, description)
	if err != nil {
		return CreateResult{Err: s.fail(OpCreate, err)}
	}

	s.log.Info().Int64("id", id).Msg("added transaction")
	return CreateResult{InsertID: id}
}

// List returns every transaction ordered by id.
func (s *TransactionStore) List(ctx context.Context) ListResult {
	q, err := s.db.Acquire(ctx)
	if err != nil {
		return emptyList(s.fail(OpList, err))
	}

	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return emptyList(s.fail(OpList, err))
	}
	return ListResult{Rows: rows}
}

// FindByID returns the transaction with id as a zero- or one-element list.
func (s *TransactionStore) FindByID(ctx context.Context, id int64) ListResult {
	q, err := s.db.Acquire(ctx)
	if err != nil {
		return emptyList(s.fail(OpFindByID, err))
	}

	rows, err := s.repo.FindByID(ctx, q, id)
	if err != nil {
		return emptyList(s.fail(OpFindByID, err))
	}
	return ListResult{Rows: rows}
}

// DeleteAll removes every transaction.
func (s *TransactionStore) DeleteAll(ctx context.Context) WriteResult {
	q, err := s.db.Acquire(ctx)
	if err != nil {
		return WriteResult{Err: s.fail(OpDeleteAll, err)}
	}

	n, err := s.repo.DeleteAll(ctx, q)
	if err != nil {
		return WriteResult{Err: s.fail(OpDeleteAll, err)}
	}

	s.log.Info().Int64("rows_affected", n).Msg("deleted all transactions")
	return WriteResult{RowsAffected: n}
}

// DeleteByID removes the transaction with id. A missing id still succeeds.
func (s *TransactionStore) DeleteByID(ctx context.Context, id int64) WriteResult {
	q, err := s.db.Acquire(ctx)
	if err != nil {
		return WriteResult{Err: s.fail(OpDeleteByID, err)}
	}

	n, err := s.repo.DeleteByID(ctx, q, id)
	if err != nil {
		return WriteResult{Err: s.fail(OpDeleteByID, err)}
	}

	s.log.Info().Int64("id", id).Int64("rows_affected", n).Msg("deleted transaction")
	return WriteResult{RowsAffected: n}
}

// Close releases the pool if it was ever opened.
func (s *TransactionStore) Close() {
	s.db.Close()
}

// fail classifies err for op and logs it once.
func (s *TransactionStore) fail(op string, err error) *errs.StoreError {
	se := sqlerr.HandleError(op, err)

	s.log.Error().
		Stack().
		Err(err).
		Str("operation", op).
		Str("error_code", string(se.Code)).
		Msg(se.Message)

	return se
}

func emptyList(err *errs.StoreError) ListResult {
	return ListResult{Rows: []models.Transaction{}, Err: err}
}
