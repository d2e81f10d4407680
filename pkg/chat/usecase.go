package chat

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/artem13815/curriculumgen/pkg/conversation"
	"github.com/artem13815/curriculumgen/pkg/document"
	"github.com/artem13815/curriculumgen/pkg/health"
	"github.com/artem13815/curriculumgen/pkg/llm"
	"github.com/artem13815/curriculumgen/pkg/table"
)

// Reply is the outcome of one turn. Table is set only when the trigger
// policy fired and the reply parsed as a table.
type Reply struct {
	Text  string
	Table *table.Table
}

// Upload is a document submitted for a file turn.
type Upload struct {
	Filename string
	Body     io.Reader
}

// UseCase covers the two kinds of turns a session can take.
type UseCase interface {
	Chat(ctx context.Context, sessionID, input string) (Reply, error)
	ChatDocument(ctx context.Context, sessionID string, up Upload) (Reply, error)
}

type service struct {
	store       conversation.Store
	model       llm.ChatModel
	prober      health.Checker
	scratch     *document.Scratch
	extractor   document.Extractor
	maxDocChars int
}

// NewService wires the chat use case. maxDocChars truncates extracted
// document text; 0 disables truncation.
func NewService(store conversation.Store, model llm.ChatModel, prober health.Checker, scratch *document.Scratch, extractor document.Extractor, maxDocChars int) UseCase {
	return &service{
		store:       store,
		model:       model,
		prober:      prober,
		scratch:     scratch,
		extractor:   extractor,
		maxDocChars: maxDocChars,
	}
}

func (s *service) Chat(ctx context.Context, sessionID, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}, ErrEmptyInput
	}
	if err := s.online(ctx); err != nil {
		return Reply{}, err
	}
	text, err := s.exchange(ctx, sessionID, input)
	if err != nil {
		return Reply{}, err
	}
	out := Reply{Text: text}
	if ShouldExtractTable(input, text) {
		if t, err := table.Extract(text); err == nil {
			out.Table = &t
		}
	}
	return out, nil
}

func (s *service) ChatDocument(ctx context.Context, sessionID string, up Upload) (Reply, error) {
	if strings.TrimSpace(up.Filename) == "" || up.Body == nil {
		return Reply{}, ErrMissingFile
	}
	ext, ok := document.Extension(up.Filename)
	if !ok {
		return Reply{}, ErrUnsupportedFileType
	}
	if err := s.online(ctx); err != nil {
		return Reply{}, err
	}

	var text string
	err := s.scratch.With(ext, up.Body, func(path string) error {
		var err error
		text, err = s.extractor.Extract(ctx, path)
		return err
	})
	if err != nil {
		return Reply{}, &ExtractionError{Filename: up.Filename, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, &ExtractionError{Filename: up.Filename, Err: ErrEmptyDocument}
	}
	if s.maxDocChars > 0 {
		if r := []rune(text); len(r) > s.maxDocChars {
			text = string(r[:s.maxDocChars])
		}
	}

	reply, err := s.exchange(ctx, sessionID, text)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: reply}, nil
}

func (s *service) online(ctx context.Context) error {
	if s.prober == nil {
		return nil
	}
	if err := s.prober.Check(ctx); err != nil {
		log.Printf("connectivity check failed: %v", err)
		return ErrNetworkUnavailable
	}
	return nil
}

func (s *service) exchange(ctx context.Context, sessionID, input string) (string, error) {
	reply, err := s.store.Exchange(ctx, sessionID, input, s.generate)
	if err != nil {
		log.Printf("session %s: exchange failed: %v", sessionID, err)
		return "", err
	}
	return reply, nil
}

func (s *service) generate(ctx context.Context, history []conversation.Turn, input string) (string, error) {
	msgs := make([]llm.Message, len(history))
	for i, t := range history {
		msgs[i] = llm.Message{Role: string(t.Role), Content: t.Content}
	}
	reply, err := s.model.Chat(ctx, msgs, input)
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", &GatewayError{Err: llm.ErrNoContent}
	}
	return reply, nil
}
