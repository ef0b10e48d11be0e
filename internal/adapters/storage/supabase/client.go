// Package supabase implementa los repositorios contra PostgREST
// (la API de tablas de Supabase). Cada request viaja con la anon key y,
// si hay sesión, con el token del usuario: RLS decide del lado del backend.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"farm-health-dashboard/internal/platform/httpclient"
	"farm-health-dashboard/internal/ports/backend"
	"farm-health-dashboard/internal/session"
)

var (
	ErrNotConfigured = errors.New("supabase storage client not configured")
)

type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	key := strings.TrimSpace(cfg.AnonKey)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}

	hc, err := httpclient.NewWithBaseURL(base+"/rest/v1", cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc, anonKey: key}, nil
}

// NewClientWithTransport permite inyectar un RoundTripper (tests).
func NewClientWithTransport(cfg Config, tr http.RoundTripper) (*Client, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	hc := httpclient.NewWithTransport(cfg.Timeout, tr)
	hc.BaseURL = c.http.BaseURL
	c.http = hc
	return c, nil
}

// get hace un SELECT; out recibe el array de filas.
func (c *Client) get(ctx context.Context, table string, query url.Values, out any) error {
	err := c.http.DoJSON(ctx, http.MethodGet, "/"+table, query, c.headers(ctx, false), nil, out)
	return mapError(err)
}

// write hace INSERT/UPDATE/DELETE con Prefer: return=representation,
// así el backend devuelve las filas afectadas y "cero filas" se distingue
// de éxito (id inexistente => backend.ErrNotFound en el caller).
func (c *Client) write(ctx context.Context, method, table string, query url.Values, in, out any) error {
	err := c.http.DoJSON(ctx, method, "/"+table, query, c.headers(ctx, true), in, out)
	return mapError(err)
}

// headers arma apikey + Authorization. El token del usuario sale del
// contexto del request (lo adjuntó el gate); sin sesión va la anon key.
func (c *Client) headers(ctx context.Context, write bool) map[string]string {
	bearer := c.anonKey
	if s, ok := session.FromContext(ctx); ok && strings.TrimSpace(s.UpstreamToken) != "" {
		bearer = s.UpstreamToken
	}

	h := map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + bearer,
	}
	if write {
		h["Prefer"] = "return=representation"
	}
	return h
}

// mapError normaliza fallos de PostgREST a los errores del puerto backend.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden:
			return backend.ErrUnauthorized
		case httpErr.StatusCode == http.StatusNotFound:
			return backend.ErrNotFound
		case httpErr.StatusCode >= 500:
			return fmt.Errorf("%w: status=%d", backend.ErrUnavailable, httpErr.StatusCode)
		default:
			return err
		}
	}

	// Red caída o timeout: mismo trato, error de backend, nunca un hang.
	return fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
}

// eqFilter arma el filtro de igualdad de PostgREST: col=eq.valor
func eqFilter(q url.Values, column, value string) url.Values {
	if q == nil {
		q = url.Values{}
	}
	q.Set(column, "eq."+value)
	return q
}

// parseDate tolera date plano y timestamp con zona.
func parseDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
