// Package seed populates the default PDF catalog: a fixed set of NCERT
// physics textbooks every account can study from. Each entry is downloaded,
// recorded, and handed to the embedding service for indexing. Seeding is
// idempotent; documents whose filename already exists are skipped.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/beyondchart/go-study-backend/internal/repo"
)

// Entry describes one catalog document.
type Entry struct {
	Filename     string
	OriginalName string
	Pages        int
	DownloadURL  string
}

// DefaultCatalog is the built-in NCERT physics set.
var DefaultCatalog = []Entry{
	{
		Filename:     "ncert_physics_class11_part1.pdf",
		OriginalName: "NCERT Physics Class XI - Part 1",
		Pages:        248,
		DownloadURL:  "https://ncert.nic.in/textbook/pdf/keph101.pdf",
	},
	{
		Filename:     "ncert_physics_class11_part2.pdf",
		OriginalName: "NCERT Physics Class XI - Part 2",
		Pages:        234,
		DownloadURL:  "https://ncert.nic.in/textbook/pdf/keph102.pdf",
	},
	{
		Filename:     "ncert_physics_exemplar_class11.pdf",
		OriginalName: "NCERT Physics Exemplar Problems Class XI",
		Pages:        180,
		DownloadURL:  "https://ncert.nic.in/pdf/publication/exemplarproblem/classXI/physics/keep304.pdf",
	},
}

const (
	downloadRetries = 3
	downloadTimeout = 30 * time.Second

	// Some textbook mirrors reject requests without a browser user agent.
	downloadUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Indexer is the embedding-service surface the seeder needs.
type Indexer interface {
	ChunkAndEmbed(ctx context.Context, filePath, docID string, isDefault bool) error
}

// Seeder downloads and registers the default catalog.
type Seeder struct {
	DB      *gorm.DB
	Indexer Indexer
	// Dir is the destination directory, conventionally "<uploads>/default".
	Dir string
	// Client is used for downloads; a default with a 30s timeout is used
	// when nil.
	Client *http.Client
	// Catalog overrides DefaultCatalog when non-nil (tests).
	Catalog []Entry
}

// Run seeds every catalog entry that is not present yet. Individual entry
// failures abort the run so operators notice broken sources; already-seeded
// entries are skipped silently.
func (s *Seeder) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create seed dir: %w", err)
	}

	catalog := s.Catalog
	if catalog == nil {
		catalog = DefaultCatalog
	}

	for _, e := range catalog {
		if err := s.seedOne(ctx, e); err != nil {
			return fmt.Errorf("seed %s: %w", e.Filename, err)
		}
	}
	return nil
}

func (s *Seeder) seedOne(ctx context.Context, e Entry) error {
	existing, err := repo.GetPdfByFilename(ctx, s.DB, e.Filename)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if existing != nil {
		log.Info().Str("filename", e.Filename).Msg("already seeded, skipping")
		return nil
	}

	localPath := filepath.Join(s.Dir, e.Filename)
	if err := s.download(ctx, e.DownloadURL, localPath); err != nil {
		return err
	}
	log.Info().Str("filename", e.Filename).Str("path", localPath).Msg("downloaded")

	created, err := repo.CreatePdf(ctx, s.DB, e.Filename, e.OriginalName, localPath, nil, e.Pages, true)
	if err != nil {
		return err
	}

	// Indexing failure is reported but does not fail the seed; the catalog
	// entry stays usable for re-indexing later.
	if s.Indexer != nil {
		if err := s.Indexer.ChunkAndEmbed(ctx, filepath.ToSlash(localPath), created.ID, true); err != nil {
			log.Warn().Err(err).Str("filename", e.Filename).Msg("embedding failed")
		} else {
			log.Info().Str("filename", e.Filename).Msg("embedded")
		}
	}
	return nil
}

// download fetches url into path with bounded retries and linear backoff.
// Responses that are not HTTP 200 application/pdf are rejected.
func (s *Seeder) download(ctx context.Context, url, path string) error {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	var lastErr error
	for attempt := 1; attempt <= downloadRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * 2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		log.Info().Int("attempt", attempt).Str("url", url).Msg("downloading")

		if lastErr = s.fetch(ctx, client, url, path); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (s *Seeder) fetch(ctx context.Context, client *http.Client, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		return fmt.Errorf("invalid content type: %s", ct)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
