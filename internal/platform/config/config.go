package config

import (
	"os"
	"strconv"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	// Administrator is the identity bootstrapped as the ledger administrator.
	Administrator string
	// PostgresDSN selects the Postgres store backend when set; empty means
	// in-memory stores.
	PostgresDSN string
	// AdminFloat is the balance seeded into the administrator's settlement
	// account at startup so claim payouts can clear.
	AdminFloat uint64
	// StartHeight is the initial value of the chain clock.
	StartHeight uint64
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("COVERLEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	admin := os.Getenv("COVERLEDGER_ADMIN")
	if admin == "" {
		admin = "administrator"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		Administrator: admin,
		PostgresDSN:   os.Getenv("DATABASE_URL"),
		AdminFloat:    uintFromEnv("COVERLEDGER_ADMIN_FLOAT", 1_000_000),
		StartHeight:   uintFromEnv("COVERLEDGER_START_HEIGHT", 1),
	}
}

func uintFromEnv(key string, fallback uint64) uint64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
