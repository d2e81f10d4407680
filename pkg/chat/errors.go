package chat

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput          = errors.New("input cannot be empty")
	ErrNetworkUnavailable  = errors.New("network unavailable")
	ErrMissingFile         = errors.New("no file selected")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("no text could be extracted from the document")
)

// GatewayError wraps any failure of the model call.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return e.Err.Error() }

func (e *GatewayError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure to turn an upload into text.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
