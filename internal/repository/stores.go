package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx,
// so the same repositories serve plain reads and transactional writes.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Stores bundles one repository per relation.
type Stores struct {
	Admins       AdminRepository
	Customers    CustomerRepository
	Distributors DistributorRepository
	Tickets      TicketRepository
	Replies      TicketReplyRepository
	Attachments  AttachmentRepository
}

// NewStores builds the repository set over the given querier.
func NewStores(q Querier) Stores {
	return Stores{
		Admins:       NewAdminRepository(q),
		Customers:    NewCustomerRepository(q),
		Distributors: NewDistributorRepository(q),
		Tickets:      NewTicketRepository(q),
		Replies:      NewTicketReplyRepository(q),
		Attachments:  NewAttachmentRepository(q),
	}
}

// TxRunner executes a function against a transaction-scoped Stores set.
// Lifecycle operations run entirely inside one call so the status write,
// reply insert and attachment rows commit or roll back together.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

type pgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner creates a TxRunner over the pgx pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{pool: pool}
}

func (r *pgxTxRunner) InTx(ctx context.Context, fn func(Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(NewStores(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
