package checkout

import (
	"context"
	"database/sql"
	"fmt"

	"gridstore-be/internal/cart"
	"gridstore-be/internal/order"
	"gridstore-be/internal/payment"
	"gridstore-be/internal/user"
)

// Effects applies the business outcome of a completed payment inside the
// ledger's completion transaction.
type Effects struct {
	Users  user.Repository
	Orders order.Repository
	Carts  cart.Repository
}

func NewEffects(users user.Repository, orders order.Repository, carts cart.Repository) *Effects {
	return &Effects{Users: users, Orders: orders, Carts: carts}
}

func (e *Effects) Apply(ctx context.Context, tx *sql.Tx, po *payment.PendingOrder) error {
	switch po.Action {
	case payment.ActionBalanceRecharge:
		return e.Users.CreditBalanceTx(ctx, tx, po.UserID, po.Amount)

	case payment.ActionCartCheckout:
		if err := e.Orders.CreateFromPendingTx(ctx, tx, po.UserID, po.OutTradeNo, po.Subject, po.Amount); err != nil {
			return err
		}
		return e.Carts.ClearTx(ctx, tx, po.UserID)

	default:
		return fmt.Errorf("unknown balance action %q", po.Action)
	}
}
