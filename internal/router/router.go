package router

import (
	"net/http"

	authmem "farm-health-dashboard/internal/adapters/auth/memory"
	mem "farm-health-dashboard/internal/adapters/storage/memory"
	"farm-health-dashboard/internal/domain/accounts"
	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/domain/analyses"
	"farm-health-dashboard/internal/domain/animals"
	"farm-health-dashboard/internal/domain/stats"
	"farm-health-dashboard/internal/middleware"
	"farm-health-dashboard/internal/platform/logger"
	"farm-health-dashboard/internal/ports/auth"
	"farm-health-dashboard/internal/session"
	"farm-health-dashboard/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Logger logger.Logger

	// Authenticator y repos vienen inyectados desde main según el driver.
	// Cualquier nil cae al adapter in-memory (modo dev / tests).
	Authenticator auth.Authenticator
	Sessions      session.Store
	Codec         *session.Codec

	Animals  animals.Repository
	Alerts   alerts.Repository
	Analyses analyses.Repository
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}

	codec := opts.Codec
	if codec == nil {
		// Secret fijo solo para dev/tests; en prod el codec viene de main
		// con SESSION_SECRET validado en el arranque.
		codec, _ = session.NewCodec("dev-secret-change-me")
		log.Warn("using built-in dev session secret", nil)
	}

	authn := opts.Authenticator
	if authn == nil {
		authn = authmem.NewAuthenticator()
	}

	animalsRepo := opts.Animals
	alertsRepo := opts.Alerts
	analysesRepo := opts.Analyses
	if animalsRepo == nil || alertsRepo == nil || analysesRepo == nil {
		memAnimals := mem.NewAnimalsRepo()
		if animalsRepo == nil {
			animalsRepo = memAnimals
		}
		if alertsRepo == nil {
			alertsRepo = mem.NewAlertsRepo(memAnimals)
		}
		if analysesRepo == nil {
			analysesRepo = mem.NewAnalysesRepo(memAnimals)
		}
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalsRepo)
	alertsSvc := alerts.NewService(alertsRepo)
	analysesSvc := analyses.NewService(analysesRepo)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Páginas server-rendered (redirect a /auth sin sesión)
	web.RegisterRoutes(r, sessions, codec)

	r.Route("/api", func(api chi.Router) {
		// Auth queda fuera del gate
		accounts.RegisterRoutes(api, authn, sessions, codec)

		// Todo lo demás pasa por el gate: sin sesión no se toca el backend.
		api.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireSession(sessions, codec, middleware.ModeAPI))

			animals.RegisterRoutes(pr, animalsSvc, sessions)
			alerts.RegisterRoutes(pr, alertsSvc, sessions)
			analyses.RegisterRoutes(pr, analysesSvc, sessions)
			stats.RegisterRoutes(pr, animalsSvc, alertsSvc, analysesSvc, sessions)
		})
	})

	log.Info("router ready", map[string]any{
		"memory_auth": opts.Authenticator == nil,
	})

	return r
}
