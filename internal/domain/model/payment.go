package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// 支払い記録。1注文につき1件（アプリ側の約束で、DB制約ではない）。
// PaymentIDはCODなら "COD-<追跡番号>"、オンライン決済なら英数12桁のランダム文字列。
type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64           `gorm:"not null;index" json:"order_id"`
	PaymentID     string          `gorm:"type:varchar(100);not null" json:"payment_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
