package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWritePage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs", "site")
	w := NewWriter(dir, "", "")

	path, err := w.WritePage([]byte("<html>one</html>"))
	if err != nil {
		t.Fatalf("WritePage failed: %v", err)
	}
	if path != filepath.Join(dir, "index.html") {
		t.Errorf("Expected index.html in %s, got %s", dir, path)
	}

	if _, err := w.WritePage([]byte("<html>two</html>")); err != nil {
		t.Fatalf("Second WritePage failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read page: %v", err)
	}
	if string(data) != "<html>two</html>" {
		t.Errorf("Expected page to be replaced, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the page in the output dir, got %d entries", len(entries))
	}
}

func TestWritePage_Unwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}

	w := NewWriter(filepath.Join(blocker, "docs"), "index.html", "_config.yml")
	if _, err := w.WritePage([]byte("x")); err == nil {
		t.Fatal("Expected error when the output directory cannot be created, got nil")
	}
}

func TestEnsureSiteConfig(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "index.html", "_config.yml")

	created, err := w.EnsureSiteConfig()
	if err != nil {
		t.Fatalf("EnsureSiteConfig failed: %v", err)
	}
	if !created {
		t.Error("Expected site config to be created")
	}

	data, err := os.ReadFile(w.SiteConfigPath())
	if err != nil {
		t.Fatalf("Failed to read site config: %v", err)
	}
	if string(data) != SiteConfigContent {
		t.Errorf("Expected %q, got %q", SiteConfigContent, data)
	}
}

func TestEnsureSiteConfig_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "index.html", "_config.yml")

	custom := "theme: minima\n"
	if err := os.WriteFile(w.SiteConfigPath(), []byte(custom), 0644); err != nil {
		t.Fatalf("Failed to seed site config: %v", err)
	}

	created, err := w.EnsureSiteConfig()
	if err != nil {
		t.Fatalf("EnsureSiteConfig failed: %v", err)
	}
	if created {
		t.Error("Expected existing site config to be left alone")
	}

	data, _ := os.ReadFile(w.SiteConfigPath())
	if string(data) != custom {
		t.Errorf("Expected custom content to survive, got %q", data)
	}
}
