package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/ideaboard/internal/model"
	"github.com/ppiankov/ideaboard/internal/view"
)

var testDocs = map[string]string{
	"Idea-A.md": "# Idea A — Alpha\n\n**One line:** First idea.\n\nDiscussion: https://github.com/orgs/OWASP-BLT/discussions/12\n",
	"Idea-B.md": "# Idea B — Beta\n\nBuilds on Idea A.\n",
	"Idea-C.md": "# Idea C — Gamma <script>\n\n**One line:** Uses Idea B and Idea C (Extended).\n",
	"README.md": "# Not an idea\n",
}

func testConfig(t *testing.T, apiURL string) *model.Config {
	t.Helper()

	root := t.TempDir()
	for name, content := range testDocs {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	cfg := model.DefaultConfig()
	cfg.Source.Root = root
	cfg.Output.Dir = filepath.Join(root, "docs")
	cfg.GitHub.APIURL = apiURL
	cfg.GitHub.GraphQLURL = apiURL + "/graphql"
	cfg.Cache.Enabled = false
	return cfg
}

func TestPipeline_Run(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	var progress bytes.Buffer

	p, err := NewPipeline(cfg, nil, &progress)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Ideas) != 3 {
		t.Fatalf("Expected 3 ideas, got %d", len(result.Ideas))
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no API calls without a token, got %d", calls.Load())
	}

	if !result.Matrix.Symmetric() {
		t.Error("Expected symmetric matrix")
	}
	if !result.Matrix.Has("A", "B") || !result.Matrix.Has("B", "C") {
		t.Error("Expected A-B and B-C overlaps")
	}

	want := view.Stats{Total: 3, WithDiscussion: 1, WithOverlaps: 3, Contributors: 0}
	if result.Summary != want {
		t.Errorf("Expected summary %+v, got %+v", want, result.Summary)
	}
	if !result.SiteConfigCreated {
		t.Error("Expected site config to be created on first run")
	}

	data, err := os.ReadFile(result.PagePath)
	if err != nil {
		t.Fatalf("Failed to read page: %v", err)
	}
	if strings.Contains(string(data), "Gamma <script>") {
		t.Error("Expected title markup to be escaped")
	}

	if !strings.Contains(progress.String(), "✓ Loaded 3 ideas") {
		t.Errorf("Expected load progress line, got:\n%s", progress.String())
	}
}

func TestPipeline_RunKeepsSiteConfig(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		t.Fatalf("Failed to create output dir: %v", err)
	}
	siteConfig := filepath.Join(cfg.Output.Dir, cfg.Output.SiteConfig)
	if err := os.WriteFile(siteConfig, []byte("theme: minima\n"), 0644); err != nil {
		t.Fatalf("Failed to seed site config: %v", err)
	}

	p, err := NewPipeline(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.SiteConfigCreated {
		t.Error("Expected existing site config to be kept")
	}
	data, _ := os.ReadFile(siteConfig)
	if string(data) != "theme: minima\n" {
		t.Errorf("Expected site config untouched, got %q", data)
	}
}

func TestPipeline_RunOutputFailure(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")

	blocker := filepath.Join(cfg.Source.Root, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}
	cfg.Output.Dir = filepath.Join(blocker, "docs")

	p, err := NewPipeline(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Expected output failure to be returned, got nil")
	}
}

func TestNewPipeline_BadLLMProviderDegrades(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")
	cfg.LLM.Provider = "parrot"

	if _, err := NewPipeline(cfg, nil, nil); err != nil {
		t.Fatalf("Expected unknown provider to disable backfill only, got %v", err)
	}
}
