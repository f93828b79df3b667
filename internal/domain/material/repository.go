package material

import "context"

// Page size limits for listing saved materials.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListOptions pages through saved materials, newest first. A non-empty
// Element keeps only materials whose composition contains that symbol.
type ListOptions struct {
	Limit   int
	Offset  int
	Element string
}

// Normalize applies DefaultPageSize to a non-positive limit, caps it at
// MaxPageSize and clamps a negative offset to zero.
func (o ListOptions) Normalize() ListOptions {
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultPageSize
	case o.Limit > MaxPageSize:
		o.Limit = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Repository persists saved materials. Rows are insert-only.
type Repository interface {
	// Insert stores m. Returns CodeConflict if the ID already exists.
	Insert(ctx context.Context, m *Material) error

	// FindByID returns ErrCodeMaterialNotFound when nothing matches.
	FindByID(ctx context.Context, id string) (*Material, error)

	// List returns one page of materials ordered by CreatedAt descending.
	List(ctx context.Context, opts ListOptions) ([]*Material, error)

	// Count ignores the paging fields of opts.
	Count(ctx context.Context, opts ListOptions) (int64, error)
}

// SearchIndex is a full-text index over materials.
type SearchIndex interface {
	Index(ctx context.Context, m *Material) error
	Search(ctx context.Context, query string, limit int) ([]*Material, error)
}

// EventPublisher announces domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// ExportStore keeps export documents in object storage.
type ExportStore interface {
	// Put uploads the export of m and returns its object key.
	Put(ctx context.Context, m *Material, body []byte) (string, error)
	// URL returns a time-limited download link for key.
	URL(ctx context.Context, key string) (string, error)
}
