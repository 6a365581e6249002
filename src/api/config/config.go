package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MySQLDSN             string
	RedisURL             string
	JWTSecret            string
	WalletCallbackSecret string
	Port                 string
	AllowedOrigins       []string
	ReconcileInterval    time.Duration
	TreasuryBalance      string
	CurrencyPrefix       string
	DiscordToken         string
	DiscordChannelID     string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	interval, err := strconv.Atoi(getenv("RECONCILE_INTERVAL", "60"))
	if err != nil || interval <= 0 {
		log.Fatalf("bad RECONCILE_INTERVAL")
	}
	return Config{
		MySQLDSN:             getenv("MYSQL_DSN", "govdash:govdash@tcp(127.0.0.1:3306)/govdash"),
		RedisURL:             getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:            getenv("JWT_SECRET", ""),
		WalletCallbackSecret: getenv("WALLET_CALLBACK_SECRET", ""),
		Port:                 getenv("PORT", "8080"),
		AllowedOrigins:       strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		ReconcileInterval:    time.Duration(interval) * time.Second,
		TreasuryBalance:      getenv("TREASURY_BALANCE", "248.5"),
		CurrencyPrefix:       getenv("CURRENCY_PREFIX", "₹"),
		DiscordToken:         os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID:     os.Getenv("DISCORD_CHANNEL_ID"),
	}
}
