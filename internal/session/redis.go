package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-health-dashboard/internal/ports/auth"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

type redisEntry struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	UpstreamToken string `json:"upstream_token"`
}

// NewRedisStore crea un Store sobre Redis, para correr más de una réplica
// detrás del mismo dominio. Hace ping al arrancar: si no responde,
// devuelve error y el wiring cae al store in-memory.
func NewRedisStore(addr, password string) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Create(ctx context.Context, p auth.Principal, upstreamToken string) (Session, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Session{}, errors.New("session principal required")
	}

	sess := Session{
		ID:            uuid.NewString(),
		Principal:     p,
		UpstreamToken: upstreamToken,
	}

	b, err := json.Marshal(redisEntry{
		UserID:        p.ID,
		Email:         p.Email,
		UpstreamToken: upstreamToken,
	})
	if err != nil {
		return Session{}, err
	}

	// Sin TTL: la vida real de la sesión la marca el token upstream.
	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, b, 0).Err(); err != nil {
		return Session{}, err
	}

	return sess, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Session, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Session{}, false, err
	}

	return Session{
		ID:            id,
		Principal:     auth.Principal{ID: e.UserID, Email: e.Email},
		UpstreamToken: e.UpstreamToken,
	}, true, nil
}

func (s *redisStore) Destroy(ctx context.Context, id string) error {
	// DEL de key ausente devuelve 0, no error: idempotente gratis.
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}
