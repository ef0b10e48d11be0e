// Package supabase implementa auth.Authenticator contra GoTrue
// (el servicio de auth de Supabase). Solo se habla el contrato observable:
// signup, password grant y logout; el ciclo de vida del token es del backend.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"farm-health-dashboard/internal/platform/httpclient"
	"farm-health-dashboard/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("supabase auth client not configured")
)

// Config del cliente de auth. BaseURL es la URL del proyecto Supabase
// (sin /auth/v1); AnonKey la API key anónima.
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

	hc, err := httpclient.NewWithBaseURL(base+"/auth/v1", cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:    hc,
		anonKey: key,
	}, nil
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

// grantResponse es el shape que GoTrue devuelve en signup y password grant.
type grantResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) SignUp(ctx context.Context, creds auth.Credentials) (auth.Grant, error) {
	return c.grant(ctx, "/signup", creds)
}

func (c *Client) SignIn(ctx context.Context, creds auth.Credentials) (auth.Grant, error) {
	return c.grant(ctx, "/token?grant_type=password", creds)
}

func (c *Client) grant(ctx context.Context, path string, creds auth.Credentials) (auth.Grant, error) {
	var out grantResponse
	err := c.http.DoJSON(ctx, http.MethodPost, path, nil, c.headers(""), map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}, &out)
	if err != nil {
		return auth.Grant{}, mapAuthError(err)
	}

	// Sin user o sin token no hay sesión que crear: mismo trato que un rechazo.
	if strings.TrimSpace(out.User.ID) == "" || strings.TrimSpace(out.AccessToken) == "" {
		return auth.Grant{}, auth.ErrRejected
	}

	return auth.Grant{
		Principal: auth.Principal{
			ID:    out.User.ID,
			Email: strings.TrimSpace(out.User.Email),
		},
		AccessToken: out.AccessToken,
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/logout", nil, c.headers(accessToken), nil, nil)

	// Un token ya vencido devuelve 401: para logout es éxito igual.
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
		return nil
	}
	return err
}

func (c *Client) headers(userToken string) map[string]string {
	bearer := userToken
	if bearer == "" {
		bearer = c.anonKey
	}
	return map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + bearer,
	}
}

// mapAuthError traduce la respuesta de GoTrue: un 4xx con mensaje se
// normaliza a ErrRejected conservando el texto para el envelope.
func mapAuthError(err error) error {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
		if msg := gotrueMessage(httpErr.Body); msg != "" {
			return fmt.Errorf("%w: %s", auth.ErrRejected, msg)
		}
		return auth.ErrRejected
	}
	return err
}

func gotrueMessage(body string) string {
	// GoTrue usa distintos campos según versión/endpoint.
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal([]byte(body), &e) != nil {
		return ""
	}
	for _, m := range []string{e.Msg, e.Message, e.ErrorDescription} {
		if strings.TrimSpace(m) != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
