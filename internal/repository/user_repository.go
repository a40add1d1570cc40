package repository

import (
	"app/internal/domain/model"
	"context"
)

// 認証自体は外部境界。ここではTokenVersionGuardが使う分だけを約束する。
type UserRepository interface {
	// IDからユーザーを1件取得。無ければ (nil, nil)
	FindByID(ctx context.Context, userID int64) (*model.User, error)
}
