package auth

import (
	"context"
	"errors"
	"time"

	"mvee-store/internal/domain/model"
	"mvee-store/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 認証失敗はどの理由でも同じエラーにする（存在の有無を漏らさない）
var ErrInvalidCredentials = errors.New("invalid credentials")

// 平文とハッシュの照合
type PasswordVerifier interface {
	Verify(hash string, plain string) bool
}

// アクセストークンの発行
type TokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User        model.User
	AccessToken string
	ExpiresAt   time.Time
}

// 管理画面のログイン処理
type LoginUsecase struct {
	users    repository.UserRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
	clock    Clock
}

// DI
func NewLoginUsecase(
	users repository.UserRepository,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		users:    users,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if in.Email == "" || in.Password == "" {
		return LoginOutput{}, ErrInvalidCredentials
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil || user == nil {
		return LoginOutput{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return LoginOutput{}, ErrInvalidCredentials
	}

	if !u.verifier.Verify(user.PasswordHash, in.Password) {
		return LoginOutput{}, ErrInvalidCredentials
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return LoginOutput{}, err
	}

	//最終ログインの更新は失敗してもログインは成立させる
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	return LoginOutput{
		User:        *user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// bcrypt実装
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
