package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestProvider(t *testing.T, baseURL string) *OpenAIProvider {
	t.Helper()
	provider, err := NewOpenAIProvider(Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "gpt-4o-mini",
		Timeout:    5,
		StrictURLs: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestOpenAIProvider_Summarize_Success(t *testing.T) {
	server := chatServer(t, "\"A marketplace for bug bounties.\"\nSecond line ignored")
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		IdeaID: "B",
		Title:  "Bug Bounty Marketplace",
		Body:   "# Idea B\nA marketplace.",
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if resp.Summary != "A marketplace for bug bounties." {
		t.Errorf("Unexpected summary: %q", resp.Summary)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Summarize_RejectsForeignURL(t *testing.T) {
	server := chatServer(t, "See https://evil.example.com for details.")
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	_, err := provider.Summarize(context.Background(), SummarizeRequest{
		IdeaID:      "A",
		Body:        "Docs at https://owasp.org/blt",
		AllowedURLs: []string{"https://owasp.org/blt"},
	})
	if err == nil {
		t.Fatal("Expected error for URL not in the document, got nil")
	}
}

func TestOpenAIProvider_Summarize_AllowsDocumentURL(t *testing.T) {
	server := chatServer(t, "Extends https://owasp.org/blt with scanners.")
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		IdeaID:      "A",
		AllowedURLs: []string{"https://owasp.org/blt"},
	})
	if err != nil {
		t.Fatalf("Expected allowed URL to pass, got %v", err)
	}
	if !reflect.DeepEqual(resp.CitedURLs, []string{"https://owasp.org/blt"}) {
		t.Errorf("Unexpected cited URLs: %v", resp.CitedURLs)
	}
}

func TestOpenAIProvider_Summarize_EmptyAnswer(t *testing.T) {
	server := chatServer(t, "   \n")
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	if _, err := provider.Summarize(context.Background(), SummarizeRequest{IdeaID: "A"}); err == nil {
		t.Fatal("Expected error for empty summary, got nil")
	}
}

func TestOpenAIProvider_Summarize_APIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error": {"message": "Internal Server Error", "type": "server_error"}}`},
		{"rate limit", http.StatusTooManyRequests, `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`},
		{"malformed json", http.StatusOK, `{malformed json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := newTestProvider(t, server.URL)
			if _, err := provider.Summarize(context.Background(), SummarizeRequest{IdeaID: "A"}); err == nil {
				t.Fatal("Expected error, got nil")
			}
		})
	}
}

func TestOpenAIProvider_Summarize_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	provider := newTestProvider(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := provider.Summarize(ctx, SummarizeRequest{IdeaID: "A"}); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil || p != nil {
		t.Errorf("Expected disabled provider, got %v, %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for missing API key")
	}

	if _, err := NewProvider(Config{Provider: "parrot"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestBuildPrompt_TruncatesBody(t *testing.T) {
	prompt := BuildPrompt(SummarizeRequest{
		IdeaID: "A",
		Title:  "Alpha",
		Body:   strings.Repeat("é", maxPromptBody),
	})

	if !strings.Contains(prompt, "Idea A: Alpha") {
		t.Error("Expected prompt to name the idea")
	}
	if !strings.Contains(prompt, "[...truncated]") {
		t.Error("Expected long body to be truncated")
	}
	if !strings.Contains(prompt, "é") || strings.ContainsRune(prompt, '�') {
		t.Error("Expected truncation on a rune boundary")
	}
}

func TestCleanSummary(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"\"quoted\"", "quoted"},
		{"**One line:** bold label", "bold label"},
		{"first\nsecond", "first"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanSummary(tt.in); got != tt.want {
			t.Errorf("CleanSummary(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
