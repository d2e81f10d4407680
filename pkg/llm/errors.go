package llm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAPIKey = errors.New("model api key is empty")
	ErrNoContent   = errors.New("no content in model response")
)

// APIError is a non-2xx answer from the model service.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("model api error [%d] at %s", e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("model api error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// BlockedError means the service refused to answer, e.g. a safety block.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "response blocked by the model service"
	}
	return fmt.Sprintf("response blocked by the model service: %s", e.Reason)
}

// Is lets a BlockedError match ErrNoContent, since no text was produced.
func (e *BlockedError) Is(target error) bool {
	return target == ErrNoContent
}
