package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem carries the title and unit price directly; catalog details live
// with the games service and are not re-joined at checkout time.
type CartItem struct {
	ID        uint
	UserID    uint
	GameID    uint
	Title     string
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
}
