package main

import (
	"context"
	"errors"
	"time"

	"mvee-store/internal/cart"
	"mvee-store/internal/config"
	"mvee-store/internal/domain/model"
	"mvee-store/internal/handler"
	"mvee-store/internal/infra/db"
	infraRepo "mvee-store/internal/infra/repository"
	"mvee-store/internal/logger"
	"mvee-store/internal/middleware"
	"mvee-store/internal/repository"
	"mvee-store/internal/server"
	"mvee-store/internal/usecase"
	auth "mvee-store/internal/usecase/auth_usecase"
	"mvee-store/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 初回起動時に管理者を1人作る。既にいれば何もしない
func seedAdmin(ctx context.Context, cfg config.Config, users repository.UserRepository) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hasher := auth.NewBcryptPasswordHasher(12)
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	return users.Create(ctx, &model.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.L().Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Category{},
		&model.Order{},
		&model.OrderItem{},
		&model.User{},
		&model.CartSnapshot{},
		&model.AuditLog{},
	); err != nil {
		logger.L().Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	snapshotRepo := infraRepo.NewCartSnapshotGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//管理者の初期投入
	if err := seedAdmin(context.Background(), cfg, userRepo); err != nil {
		logger.L().Fatal("admin seed failed", zap.Error(err))
	}

	//usecaseに渡す部品
	clock := &realClock{}
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	carts := cart.NewManager(snapshotRepo, logger.L())

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, auditRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(carts, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(carts, orderRepo, validator.NewCheckoutValidator(), usecase.CheckoutSettings{
		WhatsAppNumber:        cfg.WhatsAppNumber,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		DeliveryFee:           cfg.DeliveryFee,
		OrderRefPrefix:        cfg.OrderRefPrefix,
	})
	orderUC := usecase.NewOrderUsecase(orderRepo, auditRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	revokeUC := auth.NewRevokeUsecase(userRepo)

	//ログイン口のレート制限（毎秒1、バースト5）
	loginLimiter := middleware.NewIPRateLimiter(rate.Limit(1), 5)

	//Handler生成
	handlers := server.Handlers{
		Product:       handler.NewProductHandler(productUC),
		Category:      handler.NewCategoryHandler(categoryUC),
		Cart:          handler.NewCartHandler(cartUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		Auth:          handler.NewAuthHandler(loginUC, revokeUC, loginLimiter),
		AdminProduct:  handler.NewAdminProductHandler(productUC),
		AdminOrder:    handler.NewAdminOrderHandler(orderUC),
		AdminCategory: handler.NewAdminCategoryHandler(categoryUC),
		AdminAudit:    handler.NewAdminAuditHandler(auditUC),
	}

	//Server起動
	e := server.New(cfg, handlers, userRepo)
	if err := server.Start(e, cfg.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
