// Package session correlates requests from one browser into a conversation.
// It carries a random session id in an HS256-signed cookie; it does not
// authenticate anyone.
package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalsKey is the fiber.Ctx locals key holding the session id.
const LocalsKey = "sessionId"

var ErrInvalidToken = errors.New("invalid session token")

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	cookie string
}

func NewManager(secret, issuer, cookie string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, cookie: cookie, ttl: ttl}
}

// Issue signs a token whose subject is sessionID.
func (m *Manager) Issue(sessionID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a token and returns its session id.
func (m *Manager) Parse(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithIssuer(m.issuer))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware resolves the session id from the cookie, minting a new session
// when the cookie is missing, tampered with or expired.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, err := m.Parse(c.Cookies(m.cookie)); err == nil {
			c.Locals(LocalsKey, id)
			return c.Next()
		}
		id := uuid.New().String()
		token, err := m.Issue(id)
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     m.cookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(m.ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(LocalsKey, id)
		return c.Next()
	}
}

// ID returns the session id set by Middleware, or "" outside of it.
func ID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}
