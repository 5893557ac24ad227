package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)

	// CreditBalanceTx adds delta to the user's balance inside the caller's
	// transaction. The ledger invokes it exactly once per completed recharge.
	CreditBalanceTx(ctx context.Context, tx *sql.Tx, userID uint, delta decimal.Decimal) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, password_hash, role, balance)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id
	`, u.Email, u.Name, u.PasswordHash, u.Role).Scan(&u.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailExists
	}
	return err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, balance, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *repository) GetByID(ctx context.Context, id uint) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, balance, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *repository) CreditBalanceTx(ctx context.Context, tx *sql.Tx, userID uint, delta decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + $1, updated_at = now() WHERE id = $2
	`, delta, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("credit balance: user %d not found", userID)
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
