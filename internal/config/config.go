package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RateLimitPerMin int
	RabbitURL       string
	EventsExchange  string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	CodeTTLMinutes  int
	DDEnabled       bool
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "app"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "0")),
		RabbitURL:       getenv("RABBIT_URL", ""),
		EventsExchange:  getenv("EVENTS_EXCHANGE", "account.events"),
		SMTPHost:        getenv("SMTP_HOST", ""),
		SMTPPort:        atoi(getenv("SMTP_PORT", "587")),
		SMTPUser:        getenv("SMTP_USER", ""),
		SMTPPass:        getenv("SMTP_PASS", ""),
		SMTPFrom:        getenv("SMTP_FROM", ""),
		CodeTTLMinutes:  atoi(getenv("CODE_TTL_MINUTES", "10")),
		DDEnabled:       getenv("DD_ENABLED", "") == "true",
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
