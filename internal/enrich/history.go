package enrich

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// HistorySource returns the humans who modified a document
type HistorySource interface {
	Contributors(ctx context.Context, path string) Result[[]string]
}

// runFunc executes a command in dir and returns its stdout
type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// GitHistory reads contributors from `git log --follow`
type GitHistory struct {
	root    string
	timeout time.Duration
	log     *slog.Logger
	run     runFunc
}

// NewGitHistory creates a history source for the repository at root
func NewGitHistory(root string, timeout time.Duration, logger *slog.Logger) *GitHistory {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GitHistory{root: root, timeout: timeout, log: logger, run: runCommand}
}

const historySeparator = "|||"

// Contributors returns the display names of everyone who changed path, across
// renames, deduplicated by email. The first name seen for an email wins.
func (g *GitHistory) Contributors(ctx context.Context, path string) Result[[]string] {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.run(ctx, g.root, "git", "log", "--format=%ae"+historySeparator+"%an", "--follow", "--", path)
	if err != nil {
		g.log.Warn("git history unavailable", "path", path, "error", err)
		return Unavailable[[]string](err.Error())
	}

	return Found(parseHistory(out))
}

func parseHistory(out []byte) []string {
	seen := make(map[string]bool)
	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		email, name, ok := strings.Cut(strings.TrimSpace(scanner.Text()), historySeparator)
		if !ok {
			continue
		}
		email = strings.ToLower(strings.TrimSpace(email))
		name = strings.TrimSpace(name)
		if email == "" || name == "" || seen[email] {
			continue
		}
		seen[email] = true
		names = append(names, name)
	}

	return names
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", name, args[0], err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, args[0], err)
	}
	return out, nil
}
