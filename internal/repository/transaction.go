package repository

import (
	"context"

	"github.com/deppfellow/ledger/internal/database"
	"github.com/deppfellow/ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Every statement binds its inputs as parameters with an explicit SQL type.
// Nothing a caller passes is ever spliced into the statement text.
const (
	insertTransactionSQL = `INSERT INTO dbo.transactions (amount, description)
		VALUES ($1::double precision, $2::varchar(255))
		RETURNING id`

	listTransactionsSQL = `SELECT id, amount, description
		FROM dbo.transactions
		ORDER BY id`

	findTransactionSQL = `SELECT id, amount, description
		FROM dbo.transactions
		WHERE id = $1::integer`

	deleteAllTransactionsSQL = `DELETE FROM dbo.transactions`

	deleteTransactionSQL = `DELETE FROM dbo.transactions
		WHERE id = $1::integer`
)

// TransactionRepository holds the SQL for dbo.transactions.
//
// It owns no connection: each method runs exactly one statement on the
// DBTX it is handed.
type TransactionRepository struct{}

// NewTransactionRepository initializes a new transaction repository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create inserts a transaction and returns the id the database assigned.
func (r *TransactionRepository) Create(ctx context.Context, q database.DBTX, amount float64, description string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, insertTransactionSQL, amount, description).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create transaction")
	}
	return id, nil
}

// List returns every transaction ordered by ascending id.
func (r *TransactionRepository) List(ctx context.Context, q database.DBTX) ([]models.Transaction, error) {
	rows, err := q.Query(ctx, listTransactionsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	return scanTransactions(rows)
}

// FindByID returns the transactions whose id equals id: zero or one row.
func (r *TransactionRepository) FindByID(ctx context.Context, q database.DBTX, id int64) ([]models.Transaction, error) {
	rows, err := q.Query(ctx, findTransactionSQL, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find transaction")
	}
	return scanTransactions(rows)
}

// DeleteAll removes every transaction and reports how many rows went.
func (r *TransactionRepository) DeleteAll(ctx context.Context, q database.DBTX) (int64, error) {
	tag, err := q.Exec(ctx, deleteAllTransactionsSQL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete transactions")
	}
	return tag.RowsAffected(), nil
}

// DeleteByID removes the transaction with the given id. Deleting an id
// that does not exist is not an error.
func (r *TransactionRepository) DeleteByID(ctx context.Context, q database.DBTX, id int64) (int64, error) {
	tag, err := q.Exec(ctx, deleteTransactionSQL, id)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete transaction")
	}
	return tag.RowsAffected(), nil
}

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.Description); err != nil {
			return nil, errors.Wrap(err, "failed to scan transaction")
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read transactions")
	}
	return transactions, nil
}
