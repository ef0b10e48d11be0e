// Package accounts expone los endpoints de autenticación. No guarda
// usuarios: delega credenciales al Authenticator externo y liga el
// resultado a una sesión local firmada.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"farm-health-dashboard/internal/middleware"
	"farm-health-dashboard/internal/ports/auth"
	"farm-health-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes cuelga signup/login/logout. Son las únicas rutas del API
// que quedan fuera del gate de sesión.
func RegisterRoutes(r chi.Router, authn auth.Authenticator, sessions session.Store, codec *session.Codec) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signupHandler(authn, sessions, codec))
		ar.Post("/login", loginHandler(authn, sessions, codec))
		ar.Post("/logout", logoutHandler(authn, sessions, codec))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type principalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func signupHandler(authn auth.Authenticator, sessions session.Store, codec *session.Codec) http.HandlerFunc {
	return signInHandler(authn.SignUp, sessions, codec, "signup failed")
}

func loginHandler(authn auth.Authenticator, sessions session.Store, codec *session.Codec) http.HandlerFunc {
	return signInHandler(authn.SignIn, sessions, codec, "login failed")
}

// signInHandler factoriza signup y login: ambos validan credenciales,
// piden un Grant al backend y dejan una sesión creada + cookie firmada.
func signInHandler(
	grantFn func(ctx context.Context, creds auth.Credentials) (auth.Grant, error),
	sessions session.Store,
	codec *session.Codec,
	failMsg string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		email := strings.TrimSpace(req.Email)
		if email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		grant, err := grantFn(r.Context(), auth.Credentials{Email: email, Password: req.Password})
		if err != nil {
			if errors.Is(err, auth.ErrRejected) {
				writeError(w, http.StatusBadRequest, failMsg)
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s, err := sessions.Create(r.Context(), grant.Principal, grant.AccessToken)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not create session")
			return
		}

		signed, err := codec.Encode(s.ID)
		if err != nil {
			_ = sessions.Destroy(r.Context(), s.ID)
			writeError(w, http.StatusBadRequest, "could not create session")
			return
		}

		setSessionCookie(w, signed)
		writeData(w, http.StatusOK, principalResponse{
			ID:    grant.Principal.ID,
			Email: grant.Principal.Email,
		})
	}
}

// logoutHandler destruye la sesión local y avisa al backend (best-effort).
// Sin sesión presente igual responde success: destroy es idempotente.
func logoutHandler(authn auth.Authenticator, sessions session.Store, codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := middleware.Resolve(r, sessions, codec); ok {
			_ = sessions.Destroy(r.Context(), s.ID)
			_ = authn.SignOut(r.Context(), s.UpstreamToken)
		}

		clearSessionCookie(w)
		writeData(w, http.StatusOK, nil)
	}
}

func setSessionCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
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
