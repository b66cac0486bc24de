package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a one-sentence summary of an idea document
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for a one-liner
type SummarizeRequest struct {
	IdeaID string
	Title  string
	Body   string

	// AllowedURLs is the only set of URLs the summary may contain.
	// Usually the URLs found in Body.
	AllowedURLs []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the generated one-liner
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictURLs rejects summaries citing URLs outside AllowedURLs
	StrictURLs bool

	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:   "", // Disabled by default
		Timeout:    30,
		StrictURLs: true,
		MaxTokens:  120,
	}
}

// maxPromptBody bounds how much of a document is sent
const maxPromptBody = 6000

// BuildPrompt constructs the default one-liner prompt
func BuildPrompt(req SummarizeRequest) string {
	body := req.Body
	if len(body) > maxPromptBody {
		cut := maxPromptBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "\n[...truncated]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following project idea in ONE sentence of at most 25 words.\n")
	fmt.Fprintf(&b, "Rules:\n")
	fmt.Fprintf(&b, "1. Describe only what the document proposes. Do not invent features.\n")
	fmt.Fprintf(&b, "2. Do not include URLs, markdown, quotes or a leading label.\n")
	fmt.Fprintf(&b, "3. If the document is empty or unclear, answer with an empty line.\n\n")
	fmt.Fprintf(&b, "Idea %s: %s\n\n", req.IdeaID, req.Title)
	fmt.Fprintf(&b, "Document:\n%s\n", body)

	return b.String()
}

// CleanSummary normalizes model output to a single plain line
func CleanSummary(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	const decoration = "\"'` *"
	s = strings.Trim(s, decoration)
	s = strings.TrimPrefix(s, "One line:")
	return strings.Trim(s, decoration)
}
