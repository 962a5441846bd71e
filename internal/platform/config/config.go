package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
}

// Registrar captures the ledger's operational configuration.
type Registrar struct {
	NameSuffix         string
	AdminAccount       string
	FeeRecipient       string
	ProtocolTreasury   string
	RegistrationPeriod time.Duration
	GracePeriod        time.Duration
}

// Postgres configures the durable mirror. An empty URL disables it.
type Postgres struct {
	URL string
}

// Redis configures the display-name cache. An empty URL disables it.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the event sink. Empty brokers disable it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Config is everything main needs to wire the process.
type Config struct {
	Server    Server
	Registrar Registrar
	Postgres  Postgres
	Redis     Redis
	Kafka     Kafka
}

// FromEnv builds the full configuration from environment variables so main
// stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("NAMEREG_ADDR", ":8080"),
			JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envOr("JWT_ISSUER", "namereg"),
		},
		Registrar: Registrar{
			NameSuffix:         envOr("NAMEREG_SUFFIX", "ledger"),
			AdminAccount:       envOr("NAMEREG_ADMIN_ACCOUNT", "admin"),
			FeeRecipient:       envOr("NAMEREG_FEE_RECIPIENT", "fee-collector"),
			ProtocolTreasury:   envOr("NAMEREG_PROTOCOL_TREASURY", "protocol-treasury"),
			RegistrationPeriod: envDurationOr("NAMEREG_REGISTRATION_PERIOD", 365*24*time.Hour),
			GracePeriod:        envDurationOr("NAMEREG_GRACE_PERIOD", 30*24*time.Hour),
		},
		Postgres: Postgres{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TOPIC", "namereg.events"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
