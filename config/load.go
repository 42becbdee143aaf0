package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; real deployments use the environment.
	_ = godotenv.Load()

	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),
		Momo: Momo{
			PartnerCode: must("MOMO_PARTNER_CODE"),
			AccessKey:   must("MOMO_ACCESS_KEY"),
			SecretKey:   must("MOMO_SECRET_KEY"),
			Endpoint:    getenv("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
			RedirectURL: getenv("MOMO_REDIRECT_URL", "http://localhost:8080/v1/payments/momo/return"),
			IpnURL:      getenv("MOMO_IPN_URL", "http://localhost:8080/v1/payments/momo/ipn"),
		},
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
