package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/artem13815/curriculumgen/pkg/config"
)

// fakeGemini answers generateContent calls with replies in order and
// records the request bodies.
type fakeGemini struct {
	mu       sync.Mutex
	replies  []string
	requests [][]byte
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, body)
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": reply}}},
			"finishReason": "STOP",
		}},
	})
}

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	return config.Config{
		Port:              "0",
		LLMProvider:       config.ProviderGemini,
		LLMTimeoutSeconds: 5,
		GeminiAPIKey:      "test-key",
		GeminiBaseURL:     baseURL,
		GeminiModel:       "gemini-2.5-flash",
		HistoryMaxTurns:   100,
		UploadDir:         t.TempDir(),
		MaxUploadBytes:    1 << 20,
		SessionSecret:     "test-secret",
		SessionCookie:     "cg_session",
		SessionTTLMinutes: 60,
	}
}

func do(t *testing.T, app *fiber.App, req *http.Request, cookie *http.Cookie) (*http.Response, []byte) {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "cg_session" {
			return c
		}
	}
	return nil
}

func docx(t *testing.T, text string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestApp_ConversationFlow(t *testing.T) {
	gem := &fakeGemini{replies: []string{
		"Day | Subject\nMon | Math\nTue | Science",
		"Lesson plan summary",
	}}
	srv := httptest.NewServer(gem)
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	app, err := newApp(cfg, config.DefaultProfile())
	require.NoError(t, err)

	// Index page mints the session cookie.
	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "CurriculumGen")
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"user_input":"Give me a timetable"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body = do(t, app, req, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Day | Subject\nMon | Math\nTue | Science", gjson.GetBytes(body, "response").String())
	assert.Equal(t, `["Day","Subject"]`, gjson.GetBytes(body, "table.headers").Raw)
	assert.Equal(t, `[["Mon","Math"],["Tue","Science"]]`, gjson.GetBytes(body, "table.rows").Raw)

	mp := &bytes.Buffer{}
	w := multipart.NewWriter(mp)
	fw, err := w.CreateFormFile("file", "plan.docx")
	require.NoError(t, err)
	_, err = fw.Write(docx(t, "Week one: fractions"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req = httptest.NewRequest(http.MethodPost, "/upload", mp)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body = do(t, app, req, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"Lesson plan summary"}`, string(body))

	// The second model call carried the first exchange as history.
	require.Len(t, gem.requests, 2)
	contents := gjson.GetBytes(gem.requests[1], "contents").Array()
	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Get("role").String())
	assert.Equal(t, "Give me a timetable", contents[0].Get("parts.0.text").String())
	assert.Equal(t, "model", contents[1].Get("role").String())
	assert.Equal(t, "Week one: fractions", contents[2].Get("parts.0.text").String())

	entries, err := os.ReadDir(cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch files must be removed")

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil), cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 4, gjson.GetBytes(body, "turns").Int())

	// A fresh visitor gets its own empty conversation.
	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, gjson.GetBytes(body, "turns").Int())
}

func TestApp_RejectsBadInputWithoutCallingModel(t *testing.T) {
	gem := &fakeGemini{replies: []string{"unused"}}
	srv := httptest.NewServer(gem)
	defer srv.Close()

	app, err := newApp(testConfig(t, srv.URL), config.DefaultProfile())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"user_input":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	_, body := do(t, app, req, nil)
	assert.Equal(t, "Input cannot be empty.", gjson.GetBytes(body, "response").String())

	mp := &bytes.Buffer{}
	w := multipart.NewWriter(mp)
	fw, err := w.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req = httptest.NewRequest(http.MethodPost, "/upload", mp)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, body = do(t, app, req, nil)
	assert.Equal(t, "Invalid file type. Only PDF and DOCX are allowed.", gjson.GetBytes(body, "response").String())

	assert.Empty(t, gem.requests)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", gjson.GetBytes(body, "status").String())
}

func TestNewChatModel_UnknownProvider(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLMProvider = "other"
	_, err := newChatModel(cfg, config.DefaultProfile())
	assert.Error(t, err)
}

func TestApp_ReadinessAndChatShareConnectivityCheck(t *testing.T) {
	gem := &fakeGemini{replies: []string{"unused"}}
	srv := httptest.NewServer(gem)
	defer srv.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closed := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := testConfig(t, srv.URL)
	cfg.NetCheckAddr = closed
	cfg.NetCheckTimeoutMs = 500
	app, err := newApp(cfg, config.DefaultProfile())
	require.NoError(t, err)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.True(t, strings.HasPrefix(gjson.GetBytes(body, "details").String(), "network: "))

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"user_input":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	_, body = do(t, app, req, nil)
	assert.Equal(t, "Network error. Please check your connection.", gjson.GetBytes(body, "response").String())
	assert.Empty(t, gem.requests)
}
