package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	// 同じ商品の行があれば数量を上書き、無ければ新規作成（加算はしない）
	SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error
	// 行が無ければErrNotFound（握りつぶすかは呼び出し側が決める）
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
