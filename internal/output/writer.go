// Package output writes the generated site to disk.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SiteConfigContent is written to a fresh site configuration file
const SiteConfigContent = "# GitHub Pages configuration\n"

// Writer places the page and the site configuration in one directory
type Writer struct {
	dir        string
	page       string
	siteConfig string
}

// NewWriter creates a writer for dir. Empty names fall back to
// index.html and _config.yml.
func NewWriter(dir, pageName, siteConfigName string) *Writer {
	if pageName == "" {
		pageName = "index.html"
	}
	if siteConfigName == "" {
		siteConfigName = "_config.yml"
	}
	return &Writer{dir: dir, page: pageName, siteConfig: siteConfigName}
}

// PagePath returns where WritePage puts the page
func (w *Writer) PagePath() string {
	return filepath.Join(w.dir, w.page)
}

// SiteConfigPath returns where EnsureSiteConfig puts the site configuration
func (w *Writer) SiteConfigPath() string {
	return filepath.Join(w.dir, w.siteConfig)
}

// WritePage replaces the page with data. Readers see either the old or the
// new file, never a partial one.
func (w *Writer) WritePage(data []byte) (path string, err error) {
	path = w.PagePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+w.page+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp page: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write page: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close page: %w", err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("chmod page: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("replace page: %w", err)
	}

	return path, nil
}

// EnsureSiteConfig creates the site configuration file if it does not exist.
// An existing file is never touched; created reports whether one was written.
func (w *Writer) EnsureSiteConfig() (created bool, err error) {
	path := w.SiteConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create site config: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close site config: %w", closeErr)
		}
	}()

	if _, err := f.WriteString(SiteConfigContent); err != nil {
		return false, fmt.Errorf("write site config: %w", err)
	}
	return true, nil
}
