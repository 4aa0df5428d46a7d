package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/joho/godotenv"
)

const (
	defaultAPITimeout = 15 * time.Second
	defaultTimezone   = "UTC"
	defaultDigestHour = 8
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	// Бэкенд проката
	APIBaseURL string
	APITimeout time.Duration

	// Часовой пояс агентства: "сегодня" для проверки прошлых дат и дайджеста
	Timezone *time.Location

	TransitionPolicy reservation.Policy

	// Час отправки дайджеста, -1 выключает
	DigestHour int

	// Если не пусто, бот отвечает только этим Telegram ID
	AllowedTelegramIDs []int64
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")
	return cfg, nil
}

// FromEnv собирает конфиг из переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		Environment:   getenv("ENV"),
		APIBaseURL:    strings.TrimRight(getenv("API_BASE_URL"), "/"),
		APITimeout:    defaultAPITimeout,
		DigestHour:    defaultDigestHour,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required but not set")
	}

	if v := getenv("API_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("API_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.APITimeout = timeout
	}

	tz := getenv("TIMEZONE")
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", tz, err)
	}
	cfg.Timezone = loc

	policy, err := reservation.ParsePolicy(getenv("TRANSITION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("TRANSITION_POLICY: %w", err)
	}
	cfg.TransitionPolicy = policy

	if v := getenv("DIGEST_HOUR"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil || hour < -1 || hour > 23 {
			return nil, fmt.Errorf("DIGEST_HOUR must be -1..23, got %q", v)
		}
		cfg.DigestHour = hour
	}

	ids, err := parseIDs(getenv("ADMIN_TELEGRAM_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_IDS: %w", err)
	}
	cfg.AllowedTelegramIDs = ids

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsAllowed пускать ли Telegram-пользователя в бот
func (c *Config) IsAllowed(telegramID int64) bool {
	if len(c.AllowedTelegramIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
