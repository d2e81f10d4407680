// Package gemini is a minimal Gemini generateContent client over REST.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/artem13815/curriculumgen/pkg/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// SafetySetting is a harm category threshold, e.g. BLOCK_ONLY_HIGH.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Options configure a Client.
type Options struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	Params       llm.GenerationParams
	Safety       []SafetySetting
	Timeout      time.Duration
}

type Client struct {
	APIKey       string
	BaseURL      string
	Model        string
	systemPrompt string
	params       llm.GenerationParams
	safety       []SafetySetting
	httpDo       *http.Client
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Client{
		APIKey:       opts.APIKey,
		BaseURL:      strings.TrimRight(opts.BaseURL, "/"),
		Model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		params:       opts.Params,
		safety:       opts.Safety,
		httpDo:       &http.Client{Timeout: opts.Timeout},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SafetySettings    []SafetySetting  `json:"safetySettings,omitempty"`
}

func (c *Client) buildRequest(history []llm.Message, message string) generateRequest {
	req := generateRequest{
		Contents: make([]content, 0, len(history)+1),
		GenerationConfig: generationConfig{
			Temperature:     c.params.Temperature,
			TopP:            c.params.TopP,
			TopK:            c.params.TopK,
			MaxOutputTokens: c.params.MaxOutputTokens,
		},
		SafetySettings: c.safety,
	}
	if c.systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: c.systemPrompt}}}
	}
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == llm.RoleModel {
			role = llm.RoleModel
		}
		req.Contents = append(req.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	req.Contents = append(req.Contents, content{Role: llm.RoleUser, Parts: []part{{Text: message}}})
	return req
}

// Chat sends message after history and returns the concatenated text parts
// of the first candidate.
func (c *Client) Chat(ctx context.Context, history []llm.Message, message string) (string, error) {
	if c.APIKey == "" {
		return "", llm.ErrEmptyAPIKey
	}
	data, err := json.Marshal(c.buildRequest(history, message))
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, c.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", &llm.APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: msg}
	}
	return parseResponse(body)
}

func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("gemini: invalid JSON response")
	}
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "", &llm.BlockedError{Reason: reason}
	}
	candidate := gjson.GetBytes(body, "candidates.0")
	if !candidate.Exists() {
		return "", llm.ErrNoContent
	}
	var sb strings.Builder
	for _, p := range candidate.Get("content.parts.#.text").Array() {
		sb.WriteString(p.String())
	}
	if sb.Len() == 0 {
		if reason := candidate.Get("finishReason").String(); reason == "SAFETY" || reason == "RECITATION" || reason == "PROHIBITED_CONTENT" {
			return "", &llm.BlockedError{Reason: reason}
		}
		return "", llm.ErrNoContent
	}
	return sb.String(), nil
}
