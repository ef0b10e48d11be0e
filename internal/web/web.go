// Package web son las páginas server-rendered: shells mínimos que
// consumen el API. Acá solo vive el contrato de redirects; el resto
// del dashboard es asunto del front.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"farm-health-dashboard/internal/middleware"
	"farm-health-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pages struct {
	tmpl     *template.Template
	sessions session.Store
	codec    *session.Codec
}

func RegisterRoutes(r chi.Router, sessions session.Store, codec *session.Codec) {
	p := &pages{
		tmpl:     template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		sessions: sessions,
		codec:    codec,
	}

	r.Get("/", p.landing)
	r.Get("/auth", p.auth)

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireSession(sessions, codec, middleware.ModePage))
		gr.Get("/dashboard", p.dashboard)
	})
}

// landing: con sesión viva se va directo al dashboard.
func (p *pages) landing(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.Resolve(r, p.sessions, p.codec); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, "landing.html", nil)
}

func (p *pages) auth(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.Resolve(r, p.sessions, p.codec); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, "auth.html", nil)
}

func (p *pages) dashboard(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	p.render(w, "dashboard.html", map[string]any{
		"Email": s.Principal.Email,
	})
}

func (p *pages) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
