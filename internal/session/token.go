package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("session token invalid")
)

// Codec firma el id de sesión que viaja en la cookie / header Bearer.
// El cliente solo ve un JWT HS256 opaco; el estado vive en el Store.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret required")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encode firma el session id como claim "sid".
func (c *Codec) Encode(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", errors.New("session id required")
	}

	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": time.Now().UTC().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifica la firma y devuelve el session id.
// Un token malformado o firmado con otro secret es ErrTokenInvalid,
// nunca un error interno: el gate lo trata como "no autenticado".
func (c *Codec) Decode(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrTokenInvalid
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	sid, _ := claims["sid"].(string)
	if strings.TrimSpace(sid) == "" {
		return "", ErrTokenInvalid
	}
	return sid, nil
}
