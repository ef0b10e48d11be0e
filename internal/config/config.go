// Package config carga la configuración del proceso desde env vars.
// Acepta los nombres VITE_* del deploy original como fallback.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Drivers de storage soportados.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port string

	SupabaseURL     string
	SupabaseAnonKey string

	// SessionSecret firma el token de sesión de la cookie.
	SessionSecret string

	// StorageDriver: supabase (default), postgres (via DBDSN) o memory (dev).
	StorageDriver string
	DBDSN         string

	// RedisAddr opcional: con valor, las sesiones van a Redis.
	RedisAddr     string
	RedisPassword string
}

// Load lee y valida. Falta de backend URL/key o de session secret es
// fatal en el arranque: es el único error que mata el proceso.
func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		SupabaseURL:     firstenv("SUPABASE_URL", "VITE_SUPABASE_URL"),
		SupabaseAnonKey: firstenv("SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		StorageDriver:   strings.ToLower(getenv("STORAGE_DRIVER", "")),
		DBDSN:           os.Getenv("DB_DSN"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.StorageDriver == "" {
		cfg.StorageDriver = DriverSupabase
		if cfg.DBDSN != "" {
			cfg.StorageDriver = DriverPostgres
		}
	}

	switch cfg.StorageDriver {
	case DriverSupabase, DriverPostgres, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER: %q", cfg.StorageDriver)
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("missing required env var: SESSION_SECRET")
	}

	// En modo memory no hay backend que configurar (dev puro).
	if cfg.StorageDriver != DriverMemory {
		if cfg.SupabaseURL == "" {
			return Config{}, fmt.Errorf("missing required env var: SUPABASE_URL")
		}
		if cfg.SupabaseAnonKey == "" {
			return Config{}, fmt.Errorf("missing required env var: SUPABASE_ANON_KEY")
		}
	}
	if cfg.StorageDriver == DriverPostgres && cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("missing required env var: DB_DSN")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstenv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
