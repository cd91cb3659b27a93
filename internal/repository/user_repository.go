package repository

import (
	"context"

	"mvee-store/internal/domain/model"
)

// 管理者アカウントの保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	//最終ログインなどの更新
	Update(ctx context.Context, user *model.User) error

	//トークンのバージョンを+1（強制ログアウト）
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
