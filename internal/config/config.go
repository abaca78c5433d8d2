package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// green-api (WhatsApp транспорт)
	GreenAPIHost  string
	GreenAPIMedia string
	IDInstance    string
	APIToken      string

	CompanyName string
	AdminPhones []string // номера с полным доступом (7XXXXXXXXXX@c.us)
	// Стартовый пароль админов для HTTP-API (выставляется при
	// сидировании, если пароль ещё не задан)
	AdminAPIPassword string
	BotDebug         bool
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=crmbot port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		GreenAPIHost:     getEnv("GREEN_API_HOST", "https://api.green-api.com"),
		GreenAPIMedia:    getEnv("GREEN_API_MEDIA", "https://media.green-api.com"),
		IDInstance:       getEnv("ID_INSTANCE", ""),
		APIToken:         getEnv("API_TOKEN", ""),
		CompanyName:      getEnv("COMPANY_NAME", "CRM Bot"),
		AdminPhones:      splitList(getEnv("ADMIN_PHONES", os.Getenv("ADMIN_PHONE"))),
		AdminAPIPassword: getEnv("ADMIN_API_PASSWORD", ""),
		BotDebug:         asBool(os.Getenv("BOT_DEBUG")),
	}

	// Обязательные переменные - без них процесс не должен стартовать
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Переменная окружения JWT_SECRET не задана.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET должен быть не короче 32 символов.")
	}
	if cfg.IDInstance == "" || cfg.APIToken == "" {
		log.Fatal("[FATAL] ID_INSTANCE и API_TOKEN обязательны для работы с green-api.")
	}
	if len(cfg.AdminPhones) == 0 {
		log.Println("[WARN] ADMIN_PHONES не задан, админ-меню будет недоступно.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func asBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
