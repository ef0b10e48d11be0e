package alerts

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"farm-health-dashboard/internal/ports/backend"
	"farm-health-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes cuelga las rutas de alertas de un router ya protegido.
func RegisterRoutes(r chi.Router, svc *Service, sessions session.Store) {
	r.Route("/health-alerts", func(hr chi.Router) {
		hr.Get("/", listAlertsHandler(svc, sessions))
		hr.Post("/", createAlertHandler(svc, sessions))
		hr.Post("/{alertID}/resolve", resolveAlertHandler(svc, sessions))
	})
}

type createAlertRequest struct {
	AnimalID        string  `json:"animal_id"`
	AlertType       string  `json:"alert_type"`
	Severity        string  `json:"severity"`
	Description     string  `json:"description"`
	ConfidenceScore float64 `json:"confidence_score"`
	Notes           string  `json:"notes"`
}

type alertResponse struct {
	ID              string     `json:"id"`
	AnimalID        string     `json:"animal_id"`
	AlertType       string     `json:"alert_type"`
	Severity        string     `json:"severity"`
	Description     string     `json:"description"`
	Resolved        bool       `json:"resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ConfidenceScore float64    `json:"confidence_score"`
	Notes           string     `json:"notes,omitempty"`
	DetectedAt      *time.Time `json:"detected_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	Animal *AnimalRef `json:"animal,omitempty"`
}

func listAlertsHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseFilter(r.URL.Query().Get("filter"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "filter must be all, active or resolved")
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			resp := toAlertResponse(a.HealthAlert)
			resp.Animal = a.Animal
			out = append(out, resp)
		}

		writeData(w, http.StatusOK, out)
	}
}

func createAlertHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			AnimalID:        req.AnimalID,
			AlertType:       req.AlertType,
			Severity:        req.Severity,
			Description:     req.Description,
			ConfidenceScore: req.ConfidenceScore,
			Notes:           req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusCreated, toAlertResponse(a))
	}
}

func resolveAlertHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID := chi.URLParam(r, "alertID")

		a, err := svc.Resolve(r.Context(), alertID)
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusOK, toAlertResponse(a))
	}
}

func toAlertResponse(a HealthAlert) alertResponse {
	return alertResponse{
		ID:              a.ID,
		AnimalID:        a.AnimalID,
		AlertType:       a.AlertType,
		Severity:        string(a.Severity),
		Description:     a.Description,
		Resolved:        a.Resolved,
		ResolvedAt:      a.ResolvedAt,
		ConfidenceScore: a.ConfidenceScore,
		Notes:           a.Notes,
		DetectedAt:      a.DetectedAt,
		CreatedAt:       a.CreatedAt,
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
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, backend.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, backend.ErrUnauthorized):
		if s, ok := session.FromContext(r.Context()); ok {
			_ = sessions.Destroy(r.Context(), s.ID)
		}
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
