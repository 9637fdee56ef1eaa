package app

import (
	"time"

	"github.com/curalink/curalink-backend/internal/platform/envutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	GoogleAudience  string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,
		GoogleAudience:  envutil.String("GOOGLE_CLIENT_ID", ""),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using insecure default")
	}
	return cfg
}
