package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	u := &User{Email: "buyer@example.com", Name: "Buyer", PasswordHash: "hash", Role: "user"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(u.Email, u.Name, u.PasswordHash, u.Role).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		err := repo.Create(context.Background(), u)
		assert.NoError(t, err)
		assert.Equal(t, uint(5), u.ID)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), u)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(errors.New("database error"))

		err := repo.Create(context.Background(), u)
		assert.Error(t, err)
	})
}

func TestRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "email", "name", "password_hash", "role", "balance", "created_at", "updated_at",
		}).AddRow(1, "buyer@example.com", "Buyer", "hash", "user", "20.00", time.Now(), time.Now())

		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("buyer@example.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(context.Background(), "buyer@example.com")
		require.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
		assert.True(t, u.Balance.Equal(decimal.RequireFromString("20.00")))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestRepository_CreditBalanceTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	delta := decimal.RequireFromString("20.00")

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users SET balance = balance \+ \$1`).
			WithArgs(delta, uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = repo.CreditBalanceTx(context.Background(), tx, 1, delta)
		assert.NoError(t, err)
		assert.NoError(t, tx.Commit())
	})

	t.Run("UserMissing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users SET balance = balance \+ \$1`).
			WithArgs(delta, uint(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)

		err = repo.CreditBalanceTx(context.Background(), tx, 99, delta)
		assert.Error(t, err)
		assert.NoError(t, tx.Rollback())
	})
}
