package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init は環境に応じてzapを初期化する。prodはJSON、それ以外は色付き
func Init(env string) {
	var cfg zap.Config

	if env == "prod" || env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
	log = l
}

// L はグローバルロガーを返す。未初期化なら環境変数から遅延初期化
func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("GO_ENV"))
	}
	return log
}

// Sync はバッファを吐き出す
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
