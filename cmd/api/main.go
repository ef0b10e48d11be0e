package main

import (
	"log"
	"net/http"
	"time"

	supaauth "farm-health-dashboard/internal/adapters/auth/supabase"
	pg "farm-health-dashboard/internal/adapters/storage/postgres"
	supastore "farm-health-dashboard/internal/adapters/storage/supabase"
	"farm-health-dashboard/internal/config"
	"farm-health-dashboard/internal/platform/logger"
	"farm-health-dashboard/internal/router"
	"farm-health-dashboard/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	// .env opcional, como el dotenv del deploy original
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.NewFromEnv()

	opts := router.Options{Logger: lg}

	codec, err := session.NewCodec(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("session codec: %v", err)
	}
	opts.Codec = codec

	// Sessions: Redis si está configurado, si no in-memory.
	if cfg.RedisAddr != "" {
		store, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			lg.Warn("redis unavailable, falling back to in-memory sessions", map[string]any{"error": err.Error()})
		} else {
			opts.Sessions = store
		}
	}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		// Todo nil: el router arma los adapters in-memory (modo dev).
		lg.Warn("running with in-memory storage and auth", nil)

	case config.DriverPostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		opts.Animals = pg.NewAnimalsRepo(db)
		opts.Alerts = pg.NewAlertsRepo(db)
		opts.Analyses = pg.NewAnalysesRepo(db)
		opts.Authenticator = mustSupabaseAuth(cfg)

	default: // supabase
		client, err := supastore.NewClient(supastore.Config{
			BaseURL: cfg.SupabaseURL,
			AnonKey: cfg.SupabaseAnonKey,
		})
		if err != nil {
			log.Fatalf("supabase storage: %v", err)
		}
		opts.Animals = supastore.NewAnimalsRepo(client)
		opts.Alerts = supastore.NewAlertsRepo(client)
		opts.Analyses = supastore.NewAnalysesRepo(client)
		opts.Authenticator = mustSupabaseAuth(cfg)
	}

	r := router.NewRouter(opts)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lg.Info("starting server", map[string]any{
		"addr":    srv.Addr,
		"storage": cfg.StorageDriver,
	})

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func mustSupabaseAuth(cfg config.Config) *supaauth.Client {
	client, err := supaauth.NewClient(supaauth.Config{
		BaseURL: cfg.SupabaseURL,
		AnonKey: cfg.SupabaseAnonKey,
	})
	if err != nil {
		log.Fatalf("supabase auth: %v", err)
	}
	return client
}
