package order

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// CreateFromPendingTx writes the finalized order row inside the caller's
	// transaction. Invoked exactly once per completed checkout payment.
	CreateFromPendingTx(ctx context.Context, tx *sql.Tx, userID uint, outTradeNo, subject string, total decimal.Decimal) error

	GetByOutTradeNo(ctx context.Context, outTradeNo string) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFromPendingTx(ctx context.Context, tx *sql.Tx, userID uint, outTradeNo, subject string, total decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, out_trade_no, subject, total, status)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, outTradeNo, subject, total, StatusPaid)
	return err
}

func (r *repository) GetByOutTradeNo(ctx context.Context, outTradeNo string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, out_trade_no, subject, total, status, created_at
		FROM orders WHERE out_trade_no = $1
	`, outTradeNo)

	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.OutTradeNo, &o.Subject, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, out_trade_no, subject, total, status, created_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OutTradeNo, &o.Subject, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
