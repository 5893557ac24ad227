package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPaid OrderStatus = "PAID"
)

// Order is the finalized purchase written when a checkout payment completes.
type Order struct {
	ID         uint
	UserID     uint
	OutTradeNo string
	Subject    string
	Total      decimal.Decimal
	Status     OrderStatus
	CreatedAt  time.Time
}
