package conversation

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Role tags the author of a Turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

var (
	ErrEmptyContent = errors.New("turn content is empty")
	ErrInvalidRole  = errors.New("turn role must be user or model")
	ErrEmptySession = errors.New("session id is empty")
)

// Turn is one role-tagged message. Values are never mutated after creation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTurn trims content and validates the turn.
func NewTurn(role Role, content string) (Turn, error) {
	if role != RoleUser && role != RoleModel {
		return Turn{}, ErrInvalidRole
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Turn{}, ErrEmptyContent
	}
	return Turn{Role: role, Content: content, CreatedAt: time.Now().UTC()}, nil
}

// GenerateFunc produces the model reply for input given the prior history.
type GenerateFunc func(ctx context.Context, history []Turn, input string) (string, error)

// Store is the port for per-session dialogue history.
type Store interface {
	Append(ctx context.Context, sessionID string, turns ...Turn) error
	Snapshot(ctx context.Context, sessionID string) ([]Turn, error)
	Len(ctx context.Context, sessionID string) (int, error)
	// Exchange runs one user/model round for the session. Both turns are
	// appended only if generate succeeds; rounds within a session are serialised.
	Exchange(ctx context.Context, sessionID, input string, generate GenerateFunc) (string, error)
}
