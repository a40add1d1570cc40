package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// statusとして受け付ける値かどうか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBkash          PaymentMethod = "bkash"
	PaymentMethodNagad          PaymentMethod = "nagad"
	PaymentMethodRocket         PaymentMethod = "rocket"
	PaymentMethodCard           PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCashOnDelivery, PaymentMethodBkash, PaymentMethodNagad,
		PaymentMethodRocket, PaymentMethodCard:
		return true
	}
	return false
}

// 表示用ラベル
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCashOnDelivery:
		return "Cash on Delivery"
	case PaymentMethodBkash:
		return "bKash"
	case PaymentMethodNagad:
		return "Nagad"
	case PaymentMethodRocket:
		return "Rocket"
	case PaymentMethodCard:
		return "Credit/Debit Card"
	}
	return string(m)
}

// 注文。作成後はstatusとpayment_completed以外は変更しない。
// TrackingNumberは作成時に1回だけ採番（UUID先頭セグメントの大文字8桁）。
type Order struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int64           `gorm:"not null;index" json:"user_id"`
	TrackingNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"tracking_number"`
	FirstName        string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName         string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email            string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone            string          `gorm:"type:varchar(15);not null" json:"phone"`
	Address          string          `gorm:"type:text;not null" json:"address"`
	City             string          `gorm:"type:varchar(100);not null" json:"city"`
	PostalCode       string          `gorm:"type:varchar(20);not null" json:"postal_code"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod    PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentCompleted bool            `gorm:"not null;default:false" json:"payment_completed"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
