package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	// チェックアウト確定時に明細をまとめて作成（価格スナップショット込み）
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
