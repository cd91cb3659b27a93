package auth

import (
	"context"

	"mvee-store/internal/repository"
)

// 自分の発行済みトークンを全て失効させる（全端末ログアウト）
type RevokeUsecase struct {
	users repository.UserRepository
}

// DI
func NewRevokeUsecase(users repository.UserRepository) *RevokeUsecase {
	return &RevokeUsecase{users: users}
}

// Execute はtoken_versionを+1する。
// 以後、古いtvを持つJWTはTokenVersionGuardで401になる
func (u *RevokeUsecase) Execute(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidCredentials
	}
	return u.users.IncrementTokenVersion(ctx, userID)
}
