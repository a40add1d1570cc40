package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	// ユーザーのカートを取得し、無ければ作成（最初のカート追加で呼ばれる）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// ユーザーのカートを取得。無ければErrNotFound
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 明細を全削除（カート行は残す）
	Clear(ctx context.Context, cartID int64) error
}
