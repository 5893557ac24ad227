package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gridstore-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// EffectApplier runs the business effect of a completed payment inside the
// same transaction that flips the ledger status, so the effect lands exactly
// once or not at all.
type EffectApplier interface {
	Apply(ctx context.Context, tx *sql.Tx, order *PendingOrder) error
}

type Repository interface {
	// PlaceTemporary inserts the PENDING ledger entry for a pre-order that
	// already succeeded at the provider.
	PlaceTemporary(ctx context.Context, order *PendingOrder) error

	GetByOutTradeNo(ctx context.Context, outTradeNo string) (*PendingOrder, error)

	// Complete flips PENDING to COMPLETED and applies the order's effect in
	// one transaction. Replays against an already-completed order return
	// (false, nil); unknown references return ErrOrderNotFound.
	Complete(ctx context.Context, outTradeNo string, applier EffectApplier) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PlaceTemporary(ctx context.Context, order *PendingOrder) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payment_orders (user_id, out_trade_no, amount, pay_code, subject, action, method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'PENDING')
		RETURNING id, created_at, updated_at
	`, order.UserID, order.OutTradeNo, order.Amount, order.PayCode,
		order.Subject, order.Action, order.Method,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateOrder
	}
	if err == nil {
		order.Status = StatusPending
	}
	return err
}

func (r *repository) GetByOutTradeNo(ctx context.Context, outTradeNo string) (*PendingOrder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, out_trade_no, amount, pay_code, subject, action, method, status, created_at, updated_at
		FROM payment_orders WHERE out_trade_no = $1
	`, outTradeNo)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (r *repository) Complete(ctx context.Context, outTradeNo string, applier EffectApplier) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// Compare-and-set on status: concurrent capture and notify both race
	// here, but only one sees a row come back.
	row := tx.QueryRowContext(ctx, `
		UPDATE payment_orders
		SET status = 'COMPLETED', updated_at = now()
		WHERE out_trade_no = $1 AND status = 'PENDING'
		RETURNING id, user_id, out_trade_no, amount, pay_code, subject, action, method, status, created_at, updated_at
	`, outTradeNo)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return false, r.resolveNoRows(ctx, outTradeNo)
	}
	if err != nil {
		return false, err
	}

	if err := applier.Apply(ctx, tx, order); err != nil {
		return false, fmt.Errorf("apply payment effect: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	logger.L().Info("Payment order completed",
		zap.String("out_trade_no", outTradeNo),
		zap.String("action", string(order.Action)),
	)
	return true, nil
}

// resolveNoRows decides whether a missed CAS was an idempotent replay or an
// unknown reference.
func (r *repository) resolveNoRows(ctx context.Context, outTradeNo string) error {
	var status OrderStatus
	err := r.db.QueryRowContext(ctx, `
		SELECT status FROM payment_orders WHERE out_trade_no = $1
	`, outTradeNo).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	// Already completed: the winning signal did the work. Not an error.
	logger.L().Info("Payment completion replayed, no-op",
		zap.String("out_trade_no", outTradeNo),
		zap.String("status", string(status)),
	)
	return nil
}

func scanOrder(row *sql.Row) (*PendingOrder, error) {
	var o PendingOrder
	err := row.Scan(
		&o.ID, &o.UserID, &o.OutTradeNo, &o.Amount, &o.PayCode,
		&o.Subject, &o.Action, &o.Method, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
