package minio

import (
	"bytes"
	"context"
	"mime"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

const exportPrefix = "exports/"

// ExportKey is the object key of the export of material id.
func ExportKey(id string) string {
	return exportPrefix + id + ".json"
}

// ExportStore uploads export documents and hands out presigned links.
type ExportStore struct {
	client *Client
}

func NewExportStore(client *Client) *ExportStore {
	return &ExportStore{client: client}
}

var _ material.ExportStore = (*ExportStore)(nil)

// Put uploads body under ExportKey(m.ID). Downloads are named after the
// material.
func (s *ExportStore) Put(ctx context.Context, m *material.Material, body []byte) (string, error) {
	if s.client.isClosed() {
		return "", ErrClientClosed
	}
	if m == nil || m.ID == "" {
		return "", errors.InvalidParam("material id required")
	}

	key := ExportKey(m.ID)
	opts := minio.PutObjectOptions{
		ContentType:        "application/json",
		ContentDisposition: mime.FormatMediaType("attachment", map[string]string{"filename": m.ExportFileName()}),
		UserMetadata:       map[string]string{"material-id": m.ID},
	}
	info, err := s.client.api.PutObject(ctx, s.client.cfg.Bucket, key, bytes.NewReader(body), int64(len(body)), opts)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExportFailed, "failed to upload export").WithDetail(key)
	}

	s.client.logger.Info("Export uploaded",
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return key, nil
}

// URL presigns a GET for key, valid for the configured expiry.
func (s *ExportStore) URL(ctx context.Context, key string) (string, error) {
	if s.client.isClosed() {
		return "", ErrClientClosed
	}
	if !strings.HasPrefix(key, exportPrefix) {
		return "", errors.InvalidParam("not an export key").WithDetail(key)
	}
	u, err := s.client.api.PresignedGetObject(ctx, s.client.cfg.Bucket, key, s.client.cfg.PresignExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExportFailed, "failed to presign export").WithDetail(key)
	}
	return u.String(), nil
}
