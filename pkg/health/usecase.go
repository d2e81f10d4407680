// Package health aggregates dependency checks for the readiness probe. The
// outbound network checker registered here is the same instance the chat
// use case consults before every turn.
package health

import (
	"context"
	"fmt"
)

// Checker represents a dependency health check. checkers.NetworkChecker is
// the one the service wires.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers. Ready stops at the first
// failure and prefixes it with the checker name.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

func (s *service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}
