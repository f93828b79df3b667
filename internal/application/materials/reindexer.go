package materials

import (
	"context"
	"time"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/infrastructure/search/opensearch"
)

// BulkIndexer writes many materials to the search index at once.
type BulkIndexer interface {
	BulkIndex(ctx context.Context, ms []material.Material, source string) (*opensearch.BulkResult, error)
}

// Locker is a cluster-wide lock; only the holder reindexes.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// ReindexRecorder observes reindex runs.
type ReindexRecorder interface {
	RecordReindex(source string, docs int, err error)
}

// Reindexer rebuilds the search index from the catalog and the library.
// It runs on a schedule in every API replica; the lock keeps runs exclusive.
type Reindexer struct {
	catalog  *material.Catalog
	repo     material.Repository
	index    BulkIndexer
	lock     Locker
	metrics  ReindexRecorder
	logger   logging.Logger
	pageSize int
}

func NewReindexer(catalog *material.Catalog, repo material.Repository, index BulkIndexer, lock Locker, metrics ReindexRecorder, logger logging.Logger) *Reindexer {
	if catalog == nil {
		catalog = material.Materials()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reindexer{
		catalog:  catalog,
		repo:     repo,
		index:    index,
		lock:     lock,
		metrics:  metrics,
		logger:   logger.Named("reindexer"),
		pageSize: material.MaxPageSize,
	}
}

// Run reindexes once. It returns nil without doing anything when another
// replica holds the lock.
func (r *Reindexer) Run(ctx context.Context) error {
	if r.lock != nil {
		ok, err := r.lock.TryLock(ctx)
		if err != nil {
			return err
		}
		if !ok {
			r.logger.Debug("reindex skipped, lock held elsewhere")
			return nil
		}
		defer func() {
			if err := r.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				r.logger.Warn("failed to release reindex lock", logging.Err(err))
			}
		}()
	}

	start := time.Now()
	catalogDocs, err := r.indexCatalog(ctx)
	r.observe(opensearch.SourceCatalog, catalogDocs, err)
	if err != nil {
		return err
	}
	libraryDocs, err := r.indexLibrary(ctx)
	r.observe(opensearch.SourceLibrary, libraryDocs, err)
	if err != nil {
		return err
	}

	r.logger.Info("reindex completed",
		logging.Int("catalog", catalogDocs),
		logging.Int("library", libraryDocs),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

func (r *Reindexer) indexCatalog(ctx context.Context) (int, error) {
	res, err := r.index.BulkIndex(ctx, r.catalog.All(), opensearch.SourceCatalog)
	if err != nil {
		return 0, err
	}
	r.warnFailures(opensearch.SourceCatalog, res)
	return res.Succeeded, nil
}

func (r *Reindexer) indexLibrary(ctx context.Context) (int, error) {
	if r.repo == nil {
		return 0, nil
	}
	total := 0
	for offset := 0; ; offset += r.pageSize {
		page, err := r.repo.List(ctx, material.ListOptions{Limit: r.pageSize, Offset: offset})
		if err != nil {
			return total, err
		}
		if len(page) == 0 {
			return total, nil
		}
		batch := make([]material.Material, len(page))
		for i, m := range page {
			batch[i] = *m
		}
		res, err := r.index.BulkIndex(ctx, batch, opensearch.SourceLibrary)
		if err != nil {
			return total, err
		}
		r.warnFailures(opensearch.SourceLibrary, res)
		total += res.Succeeded
		if len(page) < r.pageSize {
			return total, nil
		}
	}
}

func (r *Reindexer) warnFailures(source string, res *opensearch.BulkResult) {
	for _, e := range res.Errors {
		r.logger.Warn("document not indexed",
			logging.String("source", source),
			logging.String("id", e.DocID),
			logging.String("reason", e.Reason))
	}
}

func (r *Reindexer) observe(source string, docs int, err error) {
	if r.metrics != nil {
		r.metrics.RecordReindex(source, docs, err)
	}
	if err != nil {
		r.logger.Error("reindex failed", logging.String("source", source), logging.Err(err))
	}
}
