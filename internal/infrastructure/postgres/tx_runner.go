package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/Restaurante-api/internal/application/expense"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("restaurante-api/postgres")

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// Los bloqueos de fila tomados con FOR UPDATE se liberan en Commit o Rollback.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout <= 0 deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si la tx no obtiene un bloqueo a tiempo (o PostgreSQL detecta un deadlock) devuelve un error
// transitorio (Temporary() == true) que envuelve el *pgconn.PgError original.
func (r *TxRunner) Run(ctx context.Context, fn func(
	resourceRepo repository.ResourceRepository,
	stockInRepo repository.StockInRepository,
	expenses inventory.ExpenseSink,
) error) (err error) {
	ctx, span := tracer.Start(ctx, "stock_ledger.tx")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int64("db.lock_timeout_ms", r.lockTimeout.Milliseconds()))

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	resourceRepo := NewResourceRepository(tx)
	stockInRepo := NewStockInRepository(tx)
	sink := expense.NewIngestion(NewExpenseRepository(tx))

	if err := fn(resourceRepo, stockInRepo, sink); err != nil {
		return translateTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
