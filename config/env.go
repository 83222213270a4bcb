package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultWebhookURL = "https://n8n.evren8n.com/webhook/kgm-query"

type Config struct {
	WebhookURL string
	HTTPPort   string
	// TrustedProxies may set X-Forwarded-For; empty trusts nobody.
	TrustedProxies []string

	PostgresDSN  string
	RabbitMQURL  string
	MQTTBroker   string
	MQTTClientID string

	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int
}

// Load reads the environment, after merging in a .env file when one exists.
// Every integration except the webhook is off until its address is set.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	port := getEnv("HTTP_PORT", "8080")
	if v := os.Getenv("PORT"); v != "" {
		port = v
	}

	return &Config{
		WebhookURL:     getEnv("N8N_WEBHOOK_URL", DefaultWebhookURL),
		HTTPPort:       port,
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "kgm-checker"),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("%s: %q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
