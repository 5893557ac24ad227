package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	users     map[string]*User
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]*User)}
}

func (r *stubRepo) Create(ctx context.Context, u *User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[u.Email]; ok {
		return ErrEmailExists
	}
	u.ID = uint(len(r.users) + 1)
	r.users[u.Email] = u
	return nil
}

func (r *stubRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *stubRepo) GetByID(ctx context.Context, id uint) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubRepo) CreditBalanceTx(ctx context.Context, tx *sql.Tx, userID uint, delta decimal.Decimal) error {
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := newStubRepo()
		svc := NewService(repo)

		u, err := svc.Register(context.Background(), "a@example.com", "Alice", "hunter22")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "user", u.Role)
		assert.NotEqual(t, "hunter22", u.PasswordHash)
		assert.True(t, CheckPasswordHash("hunter22", u.PasswordHash))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := newStubRepo()
		svc := NewService(repo)

		_, err := svc.Register(context.Background(), "a@example.com", "Alice", "hunter22")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "a@example.com", "Alice", "hunter22")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc := NewService(newStubRepo())
		_, err := svc.Register(context.Background(), "", "", "")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	repo := newStubRepo()
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), "a@example.com", "Alice", "hunter22")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "a@example.com", "hunter22")
		require.NoError(t, err)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", claims.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "a@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "b@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
