// Package materials is the saved-material library: save, browse, search,
// export and per-user preferences.
package materials

import (
	"context"
	"time"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Export targets, used for metrics.
const (
	ExportDownload    = "download"
	ExportObjectStore = "object-store"
)

// Recorder observes library activity.
type Recorder interface {
	RecordMaterialSaved(category string)
	RecordExport(target string, err error)
}

// Config holds the collaborators of Service. Repository and Preferences are
// required. A nil Index disables search and a nil Exports disables uploads.
type Config struct {
	Repository  material.Repository
	Index       material.SearchIndex
	Exports     material.ExportStore
	Publisher   material.EventPublisher
	Preferences material.PreferenceStore
	Metrics     Recorder
	Logger      logging.Logger
	Now         func() time.Time
}

// Service manages the material library.
type Service struct {
	repo      material.Repository
	index     material.SearchIndex
	exports   material.ExportStore
	publisher material.EventPublisher
	prefs     material.PreferenceStore
	metrics   Recorder
	logger    logging.Logger
	now       func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Repository == nil {
		return nil, errors.InvalidParam("material repository is required")
	}
	if cfg.Preferences == nil {
		return nil, errors.InvalidParam("preference store is required")
	}
	s := &Service{
		repo:      cfg.Repository,
		index:     cfg.Index,
		exports:   cfg.Exports,
		publisher: cfg.Publisher,
		prefs:     cfg.Preferences,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.logger = s.logger.Named("materials")
	return s, nil
}

// Save inserts a new material built from d. Indexing and event publication
// happen after the insert and never fail the save.
func (s *Service) Save(ctx context.Context, d material.Draft) (*material.Material, error) {
	m, err := material.NewMaterial(d, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	log := s.logger.With(logging.String("material_id", m.ID))
	if s.index != nil {
		if err := s.index.Index(ctx, m); err != nil {
			log.Warn("material not indexed", logging.Err(err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, m.SavedEvent()); err != nil {
			log.Warn("material.saved event dropped", logging.Err(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordMaterialSaved(string(m.Category))
	}
	log.Info("material saved", logging.String("name", m.Name), logging.String("category", string(m.Category)))
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*material.Material, error) {
	return s.repo.FindByID(ctx, id)
}

// Page is one page of the library, newest first.
type Page struct {
	Items  []*material.Material `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// List returns one page, bounded by ListOptions.Normalize. The element
// filter is matched in any case; Total counts the filtered set.
func (s *Service) List(ctx context.Context, opts material.ListOptions) (*Page, error) {
	opts = opts.Normalize()
	if opts.Element != "" {
		e, ok := reference.PeriodicTable().LookupFold(opts.Element)
		if !ok {
			return nil, errors.New(errors.ErrCodeElementNotFound, "element not found").WithDetail(opts.Element)
		}
		opts.Element = e.Symbol
	}

	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*material.Material{}
	}
	return &Page{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset}, nil
}

// Search queries the full-text index.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*material.Material, error) {
	if s.index == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "material search is disabled")
	}
	return s.index.Search(ctx, query, limit)
}

// Download is an export ready to be sent to the client.
type Download struct {
	FileName string
	Body     []byte
}

// Export renders the export document of material id.
func (s *Service) Export(ctx context.Context, id string) (d *Download, err error) {
	defer func() { s.recordExport(ExportDownload, err) }()

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := m.MarshalExport()
	if err != nil {
		return nil, err
	}
	return &Download{FileName: m.ExportFileName(), Body: body}, nil
}

// Upload is the location of an export in object storage.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload stores the export of material id in object storage and returns a
// presigned link to it.
func (s *Service) Upload(ctx context.Context, id string) (u *Upload, err error) {
	defer func() { s.recordExport(ExportObjectStore, err) }()

	if s.exports == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "object storage is disabled")
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := m.MarshalExport()
	if err != nil {
		return nil, err
	}
	key, err := s.exports.Put(ctx, m, body)
	if err != nil {
		return nil, err
	}
	url, err := s.exports.URL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Upload{Key: key, URL: url}, nil
}

func (s *Service) recordExport(target string, err error) {
	if s.metrics != nil {
		s.metrics.RecordExport(target, err)
	}
}

// LoadPreferences returns the stored preferences of user, or the defaults.
func (s *Service) LoadPreferences(ctx context.Context, user string) (material.Preferences, error) {
	return s.prefs.Load(ctx, user)
}

// SavePreferences validates and stores p, returning what was stored.
func (s *Service) SavePreferences(ctx context.Context, user string, p material.Preferences) (material.Preferences, error) {
	lang, err := material.ParseLanguage(string(p.Language))
	if err != nil {
		return material.Preferences{}, err
	}
	p.Language = lang
	p.RTL = lang.RTL()
	if err := s.prefs.Save(ctx, user, p); err != nil {
		return material.Preferences{}, err
	}
	return p, nil
}
