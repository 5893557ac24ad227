package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
