package experiment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// WriteAtomic serializes a to path via a temp-file-then-rename, so a reader
// polling the same path (a dashboard, for example) never observes
// a partially written document.
//
// The rename is retried with exponential backoff (capped attempts, capped
// delay) since a concurrent reader or antivirus-style scanner holding the
// destination path open briefly can make the final rename fail on some
// filesystems even though the write itself succeeded.
func WriteAtomic(path string, a *Analytics) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("experiment: marshal analytics: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("experiment: mkdir %s: %w", dir, err)
	}

	const (
		maxAttempts = 5
		maxBackoff  = 2 * time.Second
	)
	backoff := 50 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := writeOnce(dir, path, data); err != nil {
			lastErr = err
			slog.Warn("experiment: atomic write failed, retrying", "path", path, "attempt", attempt, "backoff", backoff, "err", err)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("experiment: write %s: giving up after %d attempts: %w", path, maxAttempts, lastErr)
}

func writeOnce(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".analytics-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
