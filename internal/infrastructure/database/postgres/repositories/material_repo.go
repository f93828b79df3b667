package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/database/postgres"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

const materialColumns = `id, name, category, description, composition, properties, thermal, processing, created_at, updated_at`

type postgresMaterialRepo struct {
	log      logging.Logger
	executor queryExecutor
	metrics  QueryRecorder
}

// NewPostgresMaterialRepo returns the PostgreSQL material.Repository.
// metrics may be nil.
func NewPostgresMaterialRepo(conn *postgres.Connection, log logging.Logger, metrics QueryRecorder) material.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &postgresMaterialRepo{log: log, executor: conn.DB(), metrics: metrics}
}

func (r *postgresMaterialRepo) Insert(ctx context.Context, m *material.Material) error {
	defer r.observe("insert", time.Now())

	compJSON, err := json.Marshal(m.Composition)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMaterialInvalid, "failed to encode composition")
	}
	propsJSON, err := json.Marshal(m.Properties)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMaterialInvalid, "failed to encode properties")
	}
	thermalJSON, err := nullableJSON(m.Thermal)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMaterialInvalid, "failed to encode thermal properties")
	}
	procJSON, err := nullableJSON(m.Processing)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMaterialInvalid, "failed to encode processing parameters")
	}
	symbols := m.Composition.Symbols()
	sort.Strings(symbols)

	query := `
		INSERT INTO materials (
			id, name, category, description, composition, elements, properties, thermal, processing, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.executor.ExecContext(ctx, query,
		m.ID, m.Name, string(m.Category), m.Description, compJSON, pq.Array(symbols),
		propsJSON, thermalJSON, procJSON, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "material already exists").WithDetail(m.ID)
		}
		r.log.Error("failed to insert material", logging.String("material_id", m.ID), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert material")
	}
	return nil
}

func (r *postgresMaterialRepo) FindByID(ctx context.Context, id string) (*material.Material, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeMaterialNotFound, "material not found").WithDetail(id)
	}
	defer r.observe("find_by_id", time.Now())

	row := r.executor.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	m, err := scanMaterial(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.New(errors.ErrCodeMaterialNotFound, "material not found").WithDetail(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load material")
	}
	return m, nil
}

func (r *postgresMaterialRepo) List(ctx context.Context, opts material.ListOptions) ([]*material.Material, error) {
	defer r.observe("list", time.Now())

	opts = opts.Normalize()
	where, args := elementFilter(opts)
	query := fmt.Sprintf(`SELECT %s FROM materials%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		materialColumns, where, len(args)+1, len(args)+2)
	rows, err := r.executor.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list materials")
	}
	defer rows.Close()

	out := make([]*material.Material, 0, opts.Limit)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan material")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate materials")
	}
	return out, nil
}

func (r *postgresMaterialRepo) Count(ctx context.Context, opts material.ListOptions) (int64, error) {
	defer r.observe("count", time.Now())

	where, args := elementFilter(opts)
	var n int64
	if err := r.executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`+where, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count materials")
	}
	return n, nil
}

func (r *postgresMaterialRepo) observe(op string, start time.Time) {
	r.metrics.RecordDBQuery("materials."+op, time.Since(start))
}

// elementFilter matches against the sorted symbol array written by Insert,
// which the GIN index on elements serves.
func elementFilter(opts material.ListOptions) (string, []any) {
	if opts.Element == "" {
		return "", nil
	}
	return ` WHERE elements @> ARRAY[$1]::TEXT[]`, []any{opts.Element}
}

// nullableJSON encodes v, or returns an untyped nil so the column is NULL.
func nullableJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanMaterial(s scanner) (*material.Material, error) {
	var (
		m                     material.Material
		category              string
		compJSON, propsJSON   []byte
		thermalJSON, procJSON []byte
	)
	if err := s.Scan(&m.ID, &m.Name, &category, &m.Description, &compJSON, &propsJSON,
		&thermalJSON, &procJSON, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Category = material.Category(category)

	if err := json.Unmarshal(compJSON, &m.Composition); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(propsJSON, &m.Properties); err != nil {
		return nil, err
	}
	if len(thermalJSON) > 0 {
		m.Thermal = new(material.Thermal)
		if err := json.Unmarshal(thermalJSON, m.Thermal); err != nil {
			return nil, err
		}
	}
	if len(procJSON) > 0 {
		m.Processing = new(composition.Processing)
		if err := json.Unmarshal(procJSON, m.Processing); err != nil {
			return nil, err
		}
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}
