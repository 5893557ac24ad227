package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// Service defines the narrow cart contract checkout relies on.
type Service interface {
	Items(ctx context.Context, userID uint) ([]CartItem, error)
	Total(items []CartItem) decimal.Decimal
	AddItem(ctx context.Context, item *CartItem) error
	RemoveItem(ctx context.Context, userID, gameID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Items(ctx context.Context, userID uint) ([]CartItem, error) {
	return s.repo.Items(ctx, userID)
}

// Total sums price * quantity over the line items.
func (s *service) Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (s *service) AddItem(ctx context.Context, item *CartItem) error {
	if item.Quantity <= 0 {
		return errors.New("quantity must be greater than zero")
	}
	if item.Price.Sign() <= 0 {
		return errors.New("price must be greater than zero")
	}
	return s.repo.AddItem(ctx, item)
}

func (s *service) RemoveItem(ctx context.Context, userID, gameID uint) error {
	if userID == 0 {
		return errors.New("user ID is required")
	}
	return s.repo.RemoveItem(ctx, userID, gameID)
}
