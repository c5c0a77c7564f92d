package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string, maxRetries int) *OpenAI {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &OpenAI{
		log:        log,
		baseURL:    baseURL,
		apiKey:     "test-key",
		model:      "gpt-4o-mini",
		embedModel: "text-embedding-3-small",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		maxRetries: maxRetries,
	}
}

func TestChatSendsSystemAndMessages(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	reply, err := c.Chat(context.Background(), ChatRequest{
		System:      "be helpful",
		Messages:    []ChatMessage{{Role: "user", Content: "hello"}},
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be helpful", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).Chat(context.Background(), ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	assert.Error(t, err)
}

func TestEmbedConvertsToFloat32(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.25,-0.5,1.0]}]}`))
	}))
	defer srv.Close()

	vec, err := testClient(srv.URL, 0).Embed(context.Background(), "jazz night")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1.0}, vec)
}

func TestDoRetriesOn429ThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1.0]}]}`))
	}))
	defer srv.Close()

	vec, err := testClient(srv.URL, 2).Embed(context.Background(), "retry me")
	require.NoError(t, err)
	assert.Equal(t, []float32{1.0}, vec)
	assert.Equal(t, 2, calls)
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Embed(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewOpenAIWithoutKeyIsNil(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	log := logrus.New()
	log.SetOutput(io.Discard)

	c, err := NewOpenAI(log)
	require.NoError(t, err)
	assert.Nil(t, c)
}
