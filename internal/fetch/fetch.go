// Package fetch loads the disclosure index document. The load is a single
// best-effort attempt: a transport failure is reported to the caller,
// distinct from a parse failure, and never retried.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// ErrTransport marks a network-level load failure, as opposed to a
// malformed document.
var ErrTransport = errors.New("fetch: transport failure")

// DefaultTimeout bounds a single document fetch.
const DefaultTimeout = 30 * time.Second

// Loader fetches index documents over HTTP or from disk.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil client gets a default with
// DefaultTimeout; a nil logger falls back to a no-op.
func NewLoader(client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// Fetch downloads the document at url and returns its bytes. Any
// network-level problem, including a non-2xx status, wraps ErrTransport.
func (l *Loader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Error("document fetch failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Error("document fetch failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	l.logger.Info("document fetched", zap.String("url", url), zap.Int("bytes", len(body)))
	return body, nil
}

// ReadFile loads the document from a local path.
func (l *Loader) ReadFile(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error("document read failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	l.logger.Info("document read", zap.String("path", path), zap.Int("bytes", len(body)))
	return body, nil
}
