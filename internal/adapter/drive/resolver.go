// Package drive resolves Google Drive photo share-links to stored photo
// identifiers, downloading each distinct photo at most once.
package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
	"github.com/couchcryptid/methane-leak-etl/internal/observability"
)

const defaultBaseURL = "https://drive.google.com/uc"

// PhotoStore is the subset of the persistence gateway the resolver needs.
type PhotoStore interface {
	HasPhoto(ctx context.Context, photoID string) (bool, error)
	PutPhoto(ctx context.Context, photoID string, data []byte) (bool, error)
}

// Resolver fetches photo content for share-links and records it in the photo
// store. Distinct identifiers are fetched in parallel with a bounded worker
// count; identifiers already present in the store are never re-fetched.
type Resolver struct {
	store      PhotoStore
	httpClient *http.Client
	baseURL    string
	workers    int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewResolver creates a photo resolver with a bounded per-fetch timeout and
// worker pool size.
func NewResolver(store PhotoStore, timeout time.Duration, workers int, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		store:      store,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		workers:    workers,
		logger:     logger,
		metrics:    metrics,
	}
}

// ResolveBatch maps share-links to resolved photo identifiers. Links whose
// photo could not be fetched (bad link, network error, non-success status)
// are absent from the result; they never fail the batch. Store errors are
// returned: if the database is unreachable the run cannot proceed.
func (r *Resolver) ResolveBatch(ctx context.Context, links []string) (map[string]string, error) {
	idByLink := make(map[string]string, len(links))
	for _, link := range links {
		if link == "" {
			continue
		}
		id, err := domain.PhotoID(link)
		if err != nil {
			r.logger.Warn("skipping malformed photo link", "link", link, "error", err)
			continue
		}
		idByLink[link] = id
	}

	// Dedupe identifiers so each is checked and fetched exactly once; a
	// single goroutine per identifier means no competing inserts. Presence
	// in the map marks an identifier as claimed, whether or not its fetch
	// has completed yet.
	var toFetch []string
	resolved := make(map[string]bool)
	for _, id := range idByLink {
		if _, seen := resolved[id]; seen {
			continue
		}
		exists, err := r.store.HasPhoto(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			r.logger.Info("photo already stored, skipping download", "photo_id", id)
			r.metrics.PhotoReuses.Inc()
			resolved[id] = true
			continue
		}
		resolved[id] = false
		toFetch = append(toFetch, id)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, id := range toFetch {
		g.Go(func() error {
			data, err := r.fetch(gctx, id)
			if err != nil {
				r.logger.Error("photo download failed", "photo_id", id, "error", err)
				r.metrics.PhotoFetchErrors.Inc()
				return nil
			}
			if _, err := r.store.PutPhoto(gctx, id, data); err != nil {
				return err
			}
			r.metrics.PhotoDownloads.Inc()
			mu.Lock()
			resolved[id] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for link, id := range idByLink {
		if resolved[id] {
			out[link] = id
		}
	}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, photoID string) ([]byte, error) {
	url := fmt.Sprintf("%s?export=download&id=%s", r.baseURL, photoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()
	r.metrics.PhotoFetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch photo: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read photo body: %w", err)
	}
	return data, nil
}
