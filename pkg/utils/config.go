package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type TokenConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration
}

func LoadTokenConfig() TokenConfig {
	secret := os.Getenv("PRICECOMPARE_TOKEN_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("PRICECOMPARE_TOKEN_ISSUER")
	if issuer == "" {
		issuer = "pricecompare"
	}

	// profile tokens live long: they stand in for the browser's storage origin
	ttl := 30 * 24 * time.Hour
	if hours, ok := envInt("PRICECOMPARE_TOKEN_TTL_HOURS"); ok && hours > 0 {
		ttl = time.Duration(hours) * time.Hour
	}

	return TokenConfig{
		Secret:   secret,
		Issuer:   issuer,
		Duration: ttl,
	}
}

type ServerConfig struct {
	HTTPAddr string
	SyncAddr string
	GRPCAddr string
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr: envOr("PRICECOMPARE_HTTP_ADDR", ":8080"),
		SyncAddr: envOr("PRICECOMPARE_SYNC_ADDR", ":7070"),
		GRPCAddr: envOr("PRICECOMPARE_GRPC_ADDR", ":9090"),
	}
}

type StoreConfig struct {
	Driver      string // "sqlite" or "postgres"; anything else is rejected when opening
	PostgresDSN string
}

func LoadStoreConfig() StoreConfig {
	driver := strings.ToLower(envOr("PRICECOMPARE_STORE_DRIVER", "sqlite"))
	return StoreConfig{
		Driver:      driver,
		PostgresDSN: os.Getenv("PRICECOMPARE_PG_DSN"),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
