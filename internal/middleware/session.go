package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"farm-health-dashboard/internal/session"
)

// Mode define cómo se rechaza un request sin sesión.
// La lógica del gate es la misma; solo cambia el mapeo de "no autenticado".
type Mode int

const (
	// ModeAPI: 401 con envelope JSON.
	ModeAPI Mode = iota
	// ModePage: redirect al login (surface browser).
	ModePage
)

// RequireSession es el gate de autorización: resuelve la sesión del request
// y corta antes de que el handler (y por lo tanto el backend) vea nada.
// Si hay sesión válida, la adjunta al contexto y deja pasar.
func RequireSession(store session.Store, codec *session.Codec, mode Mode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := Resolve(r, store, codec)
			if !ok {
				reject(w, r, mode)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// Resolve busca el token firmado (cookie o Bearer), verifica la firma y
// consulta el Store. Cualquier fallo en el camino es "no autenticado";
// acá nunca nace un 5xx.
func Resolve(r *http.Request, store session.Store, codec *session.Codec) (session.Session, bool) {
	token := tokenFromRequest(r)
	if token == "" {
		return session.Session{}, false
	}

	sid, err := codec.Decode(token)
	if err != nil {
		return session.Session{}, false
	}

	s, ok, err := store.Get(r.Context(), sid)
	if err != nil || !ok {
		return session.Session{}, false
	}
	return s, true
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(w http.ResponseWriter, r *http.Request, mode Mode) {
	if mode == ModePage {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "unauthorized",
	})
}
