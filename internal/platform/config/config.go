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
	AdminToken    string
	JWTSigningKey string
}

// Postgres captures the document store connection.
type Postgres struct {
	DSN string
}

// Redis captures the directory-cache connection. An empty URL disables the
// cache entirely; directory searches then always hit the store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures the outbox publisher target.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Scheduling captures calendar behavior. WeekStart is deliberately
// configuration rather than a literal in the projector: the Sunday-start
// convention is product choice, not algorithm.
type Scheduling struct {
	WeekStart time.Weekday
}

// Config is the full application configuration.
type Config struct {
	Server            Server
	Postgres          Postgres
	Redis             Redis
	Kafka             Kafka
	Scheduling        Scheduling
	DirectoryCacheTTL time.Duration
	OutboxInterval    time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("AUDITDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminToken := os.Getenv("ADMIN_TOKEN")

	dsn := os.Getenv("POSTGRES_DSN")

	brokers := splitNonEmpty(os.Getenv("KAFKA_BROKERS"))
	topic := os.Getenv("KAFKA_OUTBOX_TOPIC")
	if topic == "" {
		topic = "auditdesk.outbox.email"
	}

	return Config{
		Server: Server{
			Addr:          addr,
			AdminToken:    adminToken,
			JWTSigningKey: jwtSigningKey,
		},
		Postgres: Postgres{DSN: dsn},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{Brokers: brokers, Topic: topic},
		Scheduling: Scheduling{
			WeekStart: weekday(os.Getenv("WEEK_START_DAY"), time.Sunday),
		},
		DirectoryCacheTTL: envDuration("DIRECTORY_CACHE_TTL", 5*time.Minute),
		OutboxInterval:    envDuration("OUTBOX_INTERVAL", 15*time.Second),
	}
}

func envInt(key string, fallback int) int {
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

func envDuration(key string, fallback time.Duration) time.Duration {
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

func weekday(v string, fallback time.Weekday) time.Weekday {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return fallback
	}
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
