package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Karthikn9883/fpna-agent/internal/cache"
	"github.com/Karthikn9883/fpna-agent/internal/core"
	"github.com/Karthikn9883/fpna-agent/internal/sheets"
)

// datasetCacheSize bounds how many built datasets stay cached. A source
// flips between at most a handful of fingerprints in practice.
const datasetCacheSize = 4

// DatasetService owns the dataset served to handlers. It loads raw tables
// through a Loader, normalizes them once per fingerprint, and swaps the
// served dataset atomically so readers never block on a reload.
type DatasetService struct {
	loader sheets.Loader
	built  *cache.LRUCache[*core.Dataset]
	log    zerolog.Logger

	current atomic.Pointer[core.Dataset]
}

// NewDatasetService creates a dataset service. ttl bounds how long a built
// dataset may be reused when its fingerprint shows up again.
func NewDatasetService(loader sheets.Loader, ttl time.Duration, logger zerolog.Logger) *DatasetService {
	return &DatasetService{
		loader: loader,
		built:  cache.NewLRUCache[*core.Dataset](datasetCacheSize, ttl),
		log:    logger,
	}
}

// Refresh reloads the source and swaps the served dataset only when the raw
// fingerprint changed. It returns the dataset now being served and whether a
// swap happened. On error the previously served dataset stays in place.
func (s *DatasetService) Refresh(ctx context.Context) (*core.Dataset, bool, error) {
	tables, err := s.loader.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load tables: %w", err)
	}

	fingerprint := tables.Fingerprint()
	if cur := s.current.Load(); cur != nil && cur.Fingerprint() == fingerprint {
		return cur, false, nil
	}

	ds, ok := s.built.Get(fingerprint)
	if !ok {
		ds, err = core.BuildDataset(tables)
		if err != nil {
			return nil, false, fmt.Errorf("build dataset: %w", err)
		}
		s.built.Set(fingerprint, ds)
	}

	s.current.Store(ds)
	s.log.Info().
		Str("fingerprint", shortFingerprint(fingerprint)).
		Int("rows", ds.RowCount()).
		Int("months", len(ds.Months())).
		Msg("dataset swapped")

	return ds, true, nil
}

// Current returns the dataset being served, or nil before the first
// successful Refresh.
func (s *DatasetService) Current() *core.Dataset {
	return s.current.Load()
}

// Ready reports whether a dataset is being served.
func (s *DatasetService) Ready() bool {
	return s.current.Load() != nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
