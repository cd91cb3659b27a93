package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればこれを最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod

	//ストア設定
	WhatsAppNumber        string // 注文の送り先（国番号付き、数字のみ）
	FreeDeliveryThreshold int64  // この小計以上で配送無料
	DeliveryFee           int64  // 無料にならない場合の固定配送料
	OrderRefPrefix        string // 注文参照番号の接頭辞

	//初回起動時に作る管理者（両方空なら何もしない）
	AdminEmail    string
	AdminPassword string
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "mvee"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: getenv("GO_ENV", "dev"),

		WhatsAppNumber: os.Getenv("WHATSAPP_NUMBER"),
		OrderRefPrefix: getenv("ORDER_REF_PREFIX", "MVEE"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	pgPort, err := atoi("POSTGRES_PORT", "5432")
	if err != nil {
		return Config{}, err
	}
	cfg.PostgresPort = pgPort

	threshold, err := atoi64("FREE_DELIVERY_THRESHOLD", "500")
	if err != nil {
		return Config{}, err
	}
	cfg.FreeDeliveryThreshold = threshold

	fee, err := atoi64("DELIVERY_FEE", "50")
	if err != nil {
		return Config{}, err
	}
	cfg.DeliveryFee = fee

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.WhatsAppNumber == "" {
		return Config{}, fmt.Errorf("WHATSAPP_NUMBER is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoi(key string, def string) (int, error) {
	v := getenv(key, def)
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func atoi64(key string, def string) (int64, error) {
	v := getenv(key, def)
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
