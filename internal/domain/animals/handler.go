package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"farm-health-dashboard/internal/ports/backend"
	"farm-health-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes cuelga el CRUD de animales de un router ya protegido
// por el gate de sesión.
func RegisterRoutes(r chi.Router, svc *Service, sessions session.Store) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc, sessions))
		ar.Post("/", createAnimalHandler(svc, sessions))
		ar.Put("/{animalID}", updateAnimalHandler(svc, sessions))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc, sessions))
	})
}

type createAnimalRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	AgeMonths    int     `json:"age_months"`
	WeightKg     float64 `json:"weight_kg"`
	HealthStatus string  `json:"health_status"`
	PenLocation  string  `json:"pen_location"`
	LastChecked  string  `json:"last_checked"` // YYYY-MM-DD opcional
}

type updateAnimalRequest struct {
	// Punteros para update parcial real: nil = no tocar.
	Name         *string  `json:"name"`
	Type         *string  `json:"type"`
	AgeMonths    *int     `json:"age_months"`
	WeightKg     *float64 `json:"weight_kg"`
	HealthStatus *string  `json:"health_status"`
	PenLocation  *string  `json:"pen_location"`
	LastChecked  *string  `json:"last_checked"` // YYYY-MM-DD
}

type animalResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	AgeMonths    int        `json:"age_months"`
	WeightKg     float64    `json:"weight_kg"`
	HealthStatus string     `json:"health_status"`
	PenLocation  string     `json:"pen_location"`
	LastChecked  *time.Time `json:"last_checked,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func listAnimalsHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		writeData(w, http.StatusOK, out)
	}
}

func createAnimalHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var lc *time.Time
		if strings.TrimSpace(req.LastChecked) != "" {
			t, err := time.Parse("2006-01-02", req.LastChecked)
			if err != nil {
				writeError(w, http.StatusBadRequest, "last_checked must be YYYY-MM-DD")
				return
			}
			lc = &t
		}

		a, err := svc.Create(r.Context(), CreateInput{
			Name:         req.Name,
			Type:         req.Type,
			AgeMonths:    req.AgeMonths,
			WeightKg:     req.WeightKg,
			HealthStatus: req.HealthStatus,
			PenLocation:  req.PenLocation,
			LastChecked:  lc,
		})
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAnimalRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u := Update{
			Name:         req.Name,
			Type:         req.Type,
			AgeMonths:    req.AgeMonths,
			WeightKg:     req.WeightKg,
			HealthStatus: req.HealthStatus,
			PenLocation:  req.PenLocation,
		}

		if req.LastChecked != nil {
			t, err := time.Parse("2006-01-02", *req.LastChecked)
			if err != nil {
				writeError(w, http.StatusBadRequest, "last_checked must be YYYY-MM-DD")
				return
			}
			u.LastChecked = &t
		}

		a, err := svc.Update(r.Context(), animalID, u)
		if err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")

		if err := svc.Delete(r.Context(), animalID); err != nil {
			writeServiceError(w, r, sessions, err)
			return
		}

		writeData(w, http.StatusOK, nil)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		AgeMonths:    a.AgeMonths,
		WeightKg:     a.WeightKg,
		HealthStatus: string(a.HealthStatus),
		PenLocation:  a.PenLocation,
		LastChecked:  a.LastChecked,
		CreatedAt:    a.CreatedAt,
	}
}

// envelope es el shape uniforme de toda respuesta del API.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Los helpers de respuesta están duplicados a propósito en los handlers de
// cada módulo (animals/alerts/analyses/stats) para no crear paquetes
// compartidos demasiado pronto. Si aparece un cuarto shape, ahí se extrae.
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

// writeServiceError mapea errores de service/backend al envelope.
// Un unauthorized del backend desaloja la sesión local: el token upstream
// ya no sirve y el próximo request debe re-autenticar.
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
