// Package pdfs downloads the filing PDFs behind the records in the current
// view from the House Clerk's site. Downloads run with bounded concurrency;
// a failed file is recorded and skipped, never fatal for the batch.
package pdfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"disclose/internal/record"
)

// BaseURL is the Clerk's PTR PDF root. Files live at
// <BaseURL>/<year>/<docid>.pdf.
const BaseURL = "https://disclosures-clerk.house.gov/public_disc/ptr-pdfs"

// DefaultConcurrency bounds parallel downloads.
const DefaultConcurrency = 4

// Failure records one file that could not be downloaded.
type Failure struct {
	DocID string
	Err   error
}

// Result summarizes one download batch.
type Result struct {
	Downloaded int
	Skipped    int // records with no doc id or year
	Failures   []Failure
}

// Downloader fetches filing PDFs.
type Downloader struct {
	client      *http.Client
	baseURL     string
	outDir      string
	concurrency int
	logger      *zap.Logger
}

// NewDownloader creates a Downloader writing into outDir. Nil client and
// logger fall back to defaults; concurrency <= 0 uses DefaultConcurrency.
func NewDownloader(client *http.Client, outDir string, concurrency int, logger *zap.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{
		client:      client,
		baseURL:     BaseURL,
		outDir:      outDir,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Download fetches the PDF for every record in view that carries a doc id
// and a year. When filingType is non-empty, only records of that filing
// type are taken (the Clerk's PTR tree holds type "P" filings). Per-file
// failures land in the Result; only a context cancellation or an unusable
// output directory fails the batch.
func (d *Downloader) Download(ctx context.Context, view []record.Record, filingType string) (Result, error) {
	var res Result
	if err := os.MkdirAll(d.outDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, r := range view {
		if filingType != "" && r.FilingType != filingType {
			continue
		}
		if r.DocID == "" || !r.HasYear {
			res.Skipped++
			continue
		}

		r := r
		g.Go(func() error {
			if err := d.fetchOne(ctx, r); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				d.logger.Warn("pdf download failed",
					zap.String("doc_id", r.DocID), zap.Error(err))
				mu.Lock()
				res.Failures = append(res.Failures, Failure{DocID: r.DocID, Err: err})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			res.Downloaded++
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	d.logger.Info("pdf batch complete",
		zap.Int("downloaded", res.Downloaded),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failures)))
	return res, err
}

func (d *Downloader) fetchOne(ctx context.Context, r record.Record) error {
	url := fmt.Sprintf("%s/%d/%s.pdf", d.baseURL, r.Year, r.DocID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	dest := filepath.Join(d.outDir, r.DocID+".pdf")
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}
