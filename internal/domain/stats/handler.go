package stats

import (
	"encoding/json"
	"errors"
	"net/http"

	"farm-health-dashboard/internal/domain/alerts"
	"farm-health-dashboard/internal/domain/analyses"
	"farm-health-dashboard/internal/domain/animals"
	"farm-health-dashboard/internal/ports/backend"
	"farm-health-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes cuelga los endpoints derivados. No hay repo propio:
// stats lee via los services de los otros módulos y agrega en memoria.
func RegisterRoutes(r chi.Router, animalsSvc *animals.Service, alertsSvc *alerts.Service, analysesSvc *analyses.Service, sessions session.Store) {
	r.Get("/stats", statsHandler(animalsSvc, alertsSvc, sessions))
	r.Get("/analytics", analyticsHandler(animalsSvc, alertsSvc, analysesSvc, sessions))
}

func statsHandler(animalsSvc *animals.Service, alertsSvc *alerts.Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		as, err := animalsSvc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		active, err := alertsSvc.List(r.Context(), alerts.FilterActive)
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusOK, Summarize(as, len(active)))
	}
}

func analyticsHandler(animalsSvc *animals.Service, alertsSvc *alerts.Service, analysesSvc *analyses.Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		as, err := animalsSvc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		al, err := alertsSvc.List(r.Context(), alerts.FilterAll)
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		vs, err := analysesSvc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusOK, Analyze(as, al, vs))
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Helpers duplicados a propósito entre módulos; ver nota en animals/handler.go.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, sessions session.Store, err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		if s, ok := session.FromContext(r.Context()); ok {
			_ = sessions.Destroy(r.Context(), s.ID)
		}
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
