package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// OpenAI talks to the OpenAI REST API directly. It serves both chat
// completions and embeddings.
type OpenAI struct {
	log        *logrus.Logger
	baseURL    string
	apiKey     string
	model      string
	embedModel string
	httpClient *http.Client
	maxRetries int
}

// NewOpenAI builds a client from the environment. Returns (nil, nil) when
// no OPENAI_API_KEY is configured; that is degraded mode, not an error.
func NewOpenAI(log *logrus.Logger) (*OpenAI, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, nil
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}

	embedModel := strings.TrimSpace(os.Getenv("OPENAI_EMBED_MODEL"))
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}

	timeoutSec := 60
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("OPENAI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &OpenAI{
		log:        log,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *OpenAI) Close() error { return nil }

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func retryable(err error) bool {
	var he *openAIHTTPError
	if ok := asHTTPError(err, &he); ok {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	// Transport-level failures are worth one more try.
	return true
}

func asHTTPError(err error, target **openAIHTTPError) bool {
	he, ok := err.(*openAIHTTPError)
	if ok {
		*target = he
	}
	return ok
}

func (c *OpenAI) doOnce(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai decode error: %w", err)
	}
	return nil
}

func (c *OpenAI) do(ctx context.Context, path string, body any, out any) error {
	backoff := time.Second

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := c.doOnce(ctx, path, body, out)
		if err == nil {
			return nil
		}
		if attempt == c.maxRetries || !retryable(err) {
			return err
		}

		sleep := backoff + time.Duration(rand.Int63n(int64(backoff/2)))
		c.log.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt + 1,
			"sleep":   sleep.String(),
			"error":   err.Error(),
		}).Warn("openai request retrying")

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}

type chatCompletionRequest struct {
	Model       string       `json:"model"`
	Messages    []chatAPIMsg `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type chatAPIMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAI) Chat(ctx context.Context, req ChatRequest) (string, error) {
	msgs := make([]chatAPIMsg, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, chatAPIMsg{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatAPIMsg{Role: m.Role, Content: m.Content})
	}

	body := chatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp chatCompletionResponse
	if err := c.do(ctx, "/v1/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (c *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		input = " "
	}

	var resp embeddingsResponse
	if err := c.do(ctx, "/v1/embeddings", embeddingsRequest{Model: c.embedModel, Input: []string{input}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embed: empty data")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, f := range resp.Data[0].Embedding {
		vec[i] = float32(f)
	}
	return vec, nil
}
