package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/artem13815/curriculumgen/pkg/llm"
)

// Client is a minimal OpenRouter (OpenAI-compatible) chat completions client.
type Client struct {
	APIKey       string
	BaseURL      string
	Model        string
	AppTitle     string
	Referer      string
	systemPrompt string
	params       llm.GenerationParams
	httpDo       *http.Client
}

func New(apiKey, baseURL, model, appTitle, referer string) *Client {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &Client{
		APIKey:   apiKey,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Model:    model,
		AppTitle: appTitle,
		Referer:  referer,
		httpDo: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// WithProfile sets the persona preamble and sampling parameters sent on every call.
func (c *Client) WithProfile(systemPrompt string, params llm.GenerationParams) *Client {
	c.systemPrompt = systemPrompt
	c.params = params
	return c
}

// WithTimeout overrides the HTTP timeout of a single completion call.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpDo.Timeout = d
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	TopP        float32   `json:"top_p,omitempty"`
	TopK        int       `json:"top_k,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

func (c *Client) messages(history []llm.Message, userPrompt string) []message {
	out := make([]message, 0, len(history)+2)
	if c.systemPrompt != "" {
		out = append(out, message{Role: "system", Content: c.systemPrompt})
	}
	for _, m := range history {
		role := "user"
		if m.Role == llm.RoleModel {
			role = "assistant"
		}
		out = append(out, message{Role: role, Content: m.Content})
	}
	return append(out, message{Role: "user", Content: userPrompt})
}

// Chat sends the conversation to the model and returns its reply.
func (c *Client) Chat(ctx context.Context, history []llm.Message, userPrompt string) (string, error) {
	if c.APIKey == "" {
		return "", llm.ErrEmptyAPIKey
	}
	model := c.Model
	if model == "" {
		model = "google/gemini-2.5-flash"
	}
	reqBody := chatCompletionsRequest{
		Model:       model,
		Messages:    c.messages(history, userPrompt),
		Temperature: c.params.Temperature,
		TopP:        c.params.TopP,
		TopK:        c.params.TopK,
		MaxTokens:   c.params.MaxOutputTokens,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.Referer)
	}
	if c.AppTitle != "" {
		httpReq.Header.Set("X-Title", c.AppTitle)
	}

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return "", &llm.APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: fmt.Sprint(errMap["error"])}
	}
	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", llm.ErrNoContent
	}
	if out.Choices[0].Message.Content == "" && out.Choices[0].FinishReason == "content_filter" {
		return "", &llm.BlockedError{Reason: "content_filter"}
	}
	return out.Choices[0].Message.Content, nil
}
