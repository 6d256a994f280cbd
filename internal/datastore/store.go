package datastore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mamadbah2/salesreport/internal/domain/models"
)

// readTimeout bounds a shared read, which outlives any single caller's context.
const readTimeout = 2 * time.Minute

type entry struct {
	marker  string
	dataset *models.Dataset
}

// Store loads datasets and keeps one parsed copy per source key. A cached
// dataset is reused while the source marker is unchanged. Concurrent loads
// of the same source and marker share a single read.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
	logger  *zap.Logger
}

// NewStore creates an empty store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{entries: make(map[string]entry), logger: logger}
}

// Load returns the dataset for src. Repeated loads of an unchanged source
// return the same *Dataset without re-reading it. A caller whose ctx ends
// stops waiting without cancelling the read other callers share.
// Failures are *LoadError.
func (s *Store) Load(ctx context.Context, src Source) (*models.Dataset, error) {
	key := src.Key()

	marker, err := src.Marker(ctx)
	if err != nil {
		return nil, loadError(key, err)
	}

	s.mu.Lock()
	cached, ok := s.entries[key]
	s.mu.Unlock()
	if ok && cached.marker == marker {
		s.logger.Debug("dataset cache hit", zap.String("source", key))
		return cached.dataset, nil
	}

	ch := s.group.DoChan(key+"\x00"+marker, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readTimeout)
		defer cancel()

		rows, err := src.Rows(readCtx)
		if err != nil {
			return nil, loadError(key, err)
		}
		ds, err := Parse(rows)
		if err != nil {
			return nil, loadError(key, err)
		}

		s.mu.Lock()
		s.entries[key] = entry{marker: marker, dataset: ds}
		s.mu.Unlock()

		s.logger.Info("dataset loaded",
			zap.String("source", key),
			zap.Int("rows", ds.Len()),
			zap.Bool("reload", ok))
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, loadError(key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Dataset), nil
	}
}

// Invalidate drops the cached dataset for key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	s.logger.Info("dataset cache invalidated", zap.String("source", key))
}

// Purge drops every cached dataset.
func (s *Store) Purge() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Cached reports whether key currently has a cached dataset.
func (s *Store) Cached(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}
