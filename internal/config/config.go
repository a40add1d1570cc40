package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod

	SeedData      bool   // 起動時に初期データを入れるか
	AdminEmail    string // シード用の管理者メール
	AdminPassword string // シード用の管理者パスワード
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	cfg := Config{
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		GoEnv:     os.Getenv("GO_ENV"),

		SeedData:      os.Getenv("SEED_DATA") == "true",
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	//必須チェック
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		cfg.GoEnv = "dev"
	}

	//シードを使うときだけ必須
	if cfg.SeedData {
		if cfg.AdminEmail == "" {
			return Config{}, fmt.Errorf("ADMIN_EMAIL is required when SEED_DATA=true")
		}
		if cfg.AdminPassword == "" {
			return Config{}, fmt.Errorf("ADMIN_PASSWORD is required when SEED_DATA=true")
		}
	}

	return cfg, nil
}
