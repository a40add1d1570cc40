package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	// 注文に紐づく支払いを取得。無ければErrNotFound（CODの二重作成防止に使う）
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
}
