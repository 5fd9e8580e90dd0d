package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザーの保存・取得を約束。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error

	FindByEmail(ctx context.Context, email string) (model.User, error)

	//テナントIDから1件取得。注文明細の出品者名スナップショットにも使う。
	FindByClientID(ctx context.Context, clientID string) (model.User, error)

	//プロフィール・ロール・最終ログインなどの部分更新
	UpdateFields(ctx context.Context, clientID string, fields map[string]interface{}) error
}
