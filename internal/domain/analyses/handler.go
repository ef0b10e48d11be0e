package analyses

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"farm-health-dashboard/internal/ports/backend"
	"farm-health-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, sessions session.Store) {
	r.Get("/video-analyses", listAnalysesHandler(svc, sessions))
}

type analysisResponse struct {
	ID                string     `json:"id"`
	AnimalID          string     `json:"animal_id"`
	AnalysisStatus    string     `json:"analysis_status"`
	DurationSeconds   float64    `json:"duration_seconds"`
	AnomaliesFound    int        `json:"anomalies_found"`
	BehaviorsDetected []Behavior `json:"behaviors_detected"`
	VideoURL          string     `json:"video_url,omitempty"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	Animal            *AnimalRef `json:"animal,omitempty"`
}

func listAnalysesHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		out := make([]analysisResponse, 0, len(items))
		for _, v := range items {
			behaviors := v.BehaviorsDetected
			if behaviors == nil {
				behaviors = []Behavior{}
			}
			out = append(out, analysisResponse{
				ID:                v.ID,
				AnimalID:          v.AnimalID,
				AnalysisStatus:    string(v.AnalysisStatus),
				DurationSeconds:   v.DurationSeconds,
				AnomaliesFound:    v.AnomaliesFound,
				BehaviorsDetected: behaviors,
				VideoURL:          v.VideoURL,
				ProcessedAt:       v.ProcessedAt,
				CreatedAt:         v.CreatedAt,
				Animal:            v.Animal,
			})
		}

		writeData(w, http.StatusOK, out)
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
