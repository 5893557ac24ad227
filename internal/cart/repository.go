package cart

import (
	"context"
	"database/sql"
)

type Repository interface {
	Items(ctx context.Context, userID uint) ([]CartItem, error)
	AddItem(ctx context.Context, item *CartItem) error
	RemoveItem(ctx context.Context, userID, gameID uint) error

	// ClearTx empties the user's cart inside the caller's transaction; it is
	// part of the checkout completion effect.
	ClearTx(ctx context.Context, tx *sql.Tx, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Items(ctx context.Context, userID uint) ([]CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, game_id, title, price, quantity, created_at
		FROM cart_items WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.GameID, &it.Title, &it.Price, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) AddItem(ctx context.Context, item *CartItem) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (user_id, game_id, title, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, game_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id
	`, item.UserID, item.GameID, item.Title, item.Price, item.Quantity).Scan(&item.ID)
}

func (r *repository) RemoveItem(ctx context.Context, userID, gameID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1 AND game_id = $2
	`, userID, gameID)
	return err
}

func (r *repository) ClearTx(ctx context.Context, tx *sql.Tx, userID uint) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1
	`, userID)
	return err
}
