package chat

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/curriculumgen/pkg/conversation"
	"github.com/artem13815/curriculumgen/pkg/document"
	"github.com/artem13815/curriculumgen/pkg/llm"
)

type stubModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	history [][]llm.Message
	inputs  []string
}

func (m *stubModel) Chat(_ context.Context, history []llm.Message, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.history = append(m.history, history)
	m.inputs = append(m.inputs, message)
	return m.reply, m.err
}

type stubProber struct{ err error }

func (p stubProber) Name() string                { return "stub" }
func (p stubProber) Check(context.Context) error { return p.err }

type stubExtractor struct {
	text string
	err  error
	path string
}

func (e *stubExtractor) Extract(_ context.Context, path string) (string, error) {
	e.path = path
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return e.text, e.err
}

type fixture struct {
	svc       UseCase
	store     *conversation.MemoryStore
	model     *stubModel
	extractor *stubExtractor
	dir       string
}

func newFixture(t *testing.T, reply string, probeErr error) *fixture {
	t.Helper()
	f := &fixture{
		store:     conversation.NewMemoryStore(0),
		model:     &stubModel{reply: reply},
		extractor: &stubExtractor{text: "Chapter 1. Photosynthesis"},
		dir:       t.TempDir(),
	}
	f.svc = NewService(f.store, f.model, stubProber{err: probeErr}, document.NewScratch(f.dir, 1<<20), f.extractor, 0)
	return f
}

func (f *fixture) turns(t *testing.T, session string) []conversation.Turn {
	t.Helper()
	turns, err := f.store.Snapshot(context.Background(), session)
	require.NoError(t, err)
	return turns
}

func (f *fixture) assertScratchEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChat_AppendsUserThenModel(t *testing.T) {
	f := newFixture(t, "  Here is a lesson plan.  \n", nil)

	reply, err := f.svc.Chat(context.Background(), "s1", "  Plan a lesson on fractions ")
	require.NoError(t, err)
	assert.Equal(t, "Here is a lesson plan.", reply.Text)
	assert.Nil(t, reply.Table)

	turns := f.turns(t, "s1")
	require.Len(t, turns, 2)
	assert.Equal(t, conversation.RoleUser, turns[0].Role)
	assert.Equal(t, "Plan a lesson on fractions", turns[0].Content)
	assert.Equal(t, conversation.RoleModel, turns[1].Role)
	assert.Equal(t, "Here is a lesson plan.", turns[1].Content)
}

func TestChat_PassesPriorHistory(t *testing.T) {
	f := newFixture(t, "ok", nil)
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, "s1", "first")
	require.NoError(t, err)
	_, err = f.svc.Chat(ctx, "s1", "second")
	require.NoError(t, err)

	require.Len(t, f.model.history, 2)
	assert.Empty(t, f.model.history[0])
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "first"},
		{Role: llm.RoleModel, Content: "ok"},
	}, f.model.history[1])
	assert.Equal(t, "second", f.model.inputs[1])
}

func TestChat_EmptyInput(t *testing.T) {
	f := newFixture(t, "ok", nil)

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.Chat(context.Background(), "s1", in)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Zero(t, f.model.calls)
	assert.Empty(t, f.turns(t, "s1"))
}

func TestChat_NetworkUnavailable(t *testing.T) {
	f := newFixture(t, "ok", errors.New("dial tcp: unreachable"))

	_, err := f.svc.Chat(context.Background(), "s1", "hello")
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
	assert.Zero(t, f.model.calls)
	assert.Empty(t, f.turns(t, "s1"))
}

func TestChat_GatewayFailure(t *testing.T) {
	f := newFixture(t, "", nil)
	f.model.err = &llm.APIError{StatusCode: 503, Endpoint: "/gen", Message: "overloaded"}

	_, err := f.svc.Chat(context.Background(), "s1", "hello")
	var gw *GatewayError
	require.ErrorAs(t, err, &gw)
	assert.Contains(t, err.Error(), "overloaded")
	assert.Empty(t, f.turns(t, "s1"), "failed exchange appends nothing")

	f.model.err = nil
	_, err = f.svc.Chat(context.Background(), "s1", "hello")
	require.ErrorAs(t, err, &gw)
	assert.ErrorIs(t, err, llm.ErrNoContent)
}

func TestChat_TableTriggerPolicy(t *testing.T) {
	const tableReply = "Day | Subject\nMon | Maths\nTue | Science"

	tests := []struct {
		name      string
		input     string
		reply     string
		wantTable bool
	}{
		{name: "timetable in input", input: "Generate a timetable", reply: tableReply, wantTable: true},
		{name: "table form in input", input: "Give it in TABLE FORM please", reply: tableReply, wantTable: true},
		{name: "tabular in reply", input: "Summarise the week", reply: "In tabular form:\n" + tableReply, wantTable: true},
		{name: "no cue", input: "Summarise the week", reply: tableReply},
		{name: "cue but no table", input: "Generate a timetable", reply: "Sorry, I cannot."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.reply, nil)
			reply, err := f.svc.Chat(context.Background(), "s1", tt.input)
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.reply), reply.Text)
			if !tt.wantTable {
				assert.Nil(t, reply.Table)
				return
			}
			require.NotNil(t, reply.Table)
			assert.Equal(t, []string{"Day", "Subject"}, reply.Table.Headers)
			assert.Len(t, reply.Table.Rows, 2)
		})
	}
}

func TestShouldExtractTable(t *testing.T) {
	assert.True(t, ShouldExtractTable("Generate a timetable", ""))
	assert.True(t, ShouldExtractTable("", "This is TABULAR data"))
	assert.False(t, ShouldExtractTable("make a table", "here you go"))
}

func TestChatDocument_Success(t *testing.T) {
	f := newFixture(t, "Summary: plants make food. | not a table", nil)

	reply, err := f.svc.ChatDocument(context.Background(), "s1", Upload{
		Filename: "Notes.PDF",
		Body:     strings.NewReader("%PDF-1.4 ..."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Summary: plants make food. | not a table", reply.Text)
	assert.Nil(t, reply.Table, "file turns never extract tables")

	assert.Equal(t, ".pdf", strings.ToLower(f.extractor.path[len(f.extractor.path)-4:]))
	assert.NoFileExists(t, f.extractor.path)
	f.assertScratchEmpty(t)

	turns := f.turns(t, "s1")
	require.Len(t, turns, 2)
	assert.Equal(t, "Chapter 1. Photosynthesis", turns[0].Content)
	assert.Equal(t, []string{"Chapter 1. Photosynthesis"}, f.model.inputs)
}

func TestChatDocument_Validation(t *testing.T) {
	f := newFixture(t, "ok", nil)
	ctx := context.Background()

	_, err := f.svc.ChatDocument(ctx, "s1", Upload{Filename: "", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = f.svc.ChatDocument(ctx, "s1", Upload{Filename: "notes.txt", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	assert.Zero(t, f.model.calls)
	assert.Empty(t, f.extractor.path, "rejected before touching disk")
	f.assertScratchEmpty(t)
}

func TestChatDocument_ExtractionFailureCleansUp(t *testing.T) {
	f := newFixture(t, "ok", nil)
	f.extractor.err = errors.New("corrupt xref table")

	_, err := f.svc.ChatDocument(context.Background(), "s1", Upload{Filename: "plan.docx", Body: strings.NewReader("zip?")})
	var ex *ExtractionError
	require.ErrorAs(t, err, &ex)
	assert.Contains(t, err.Error(), "corrupt xref table")
	assert.Zero(t, f.model.calls)
	assert.NoFileExists(t, f.extractor.path)
	f.assertScratchEmpty(t)
}

func TestChatDocument_EmptyText(t *testing.T) {
	f := newFixture(t, "ok", nil)
	f.extractor.text = "   "

	_, err := f.svc.ChatDocument(context.Background(), "s1", Upload{Filename: "plan.docx", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrEmptyDocument)
	f.assertScratchEmpty(t)
}

func TestChatDocument_Truncates(t *testing.T) {
	f := newFixture(t, "ok", nil)
	svc := NewService(f.store, f.model, nil, document.NewScratch(f.dir, 1<<20), &stubExtractor{text: "ééééé"}, 3)

	_, err := svc.ChatDocument(context.Background(), "s1", Upload{Filename: "a.pdf", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, []string{"ééé"}, f.model.inputs)
}
