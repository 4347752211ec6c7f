// Package s3store adapts the S3 uploader to the domain document store.
package s3store

import (
	"bytes"
	"context"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/storage"
)

type documentStore struct {
	uploader *storage.Uploader
}

func New(uploader *storage.Uploader) domain.DocumentStore {
	return &documentStore{uploader: uploader}
}

func (s *documentStore) Upload(ctx context.Context, folder string, file *domain.FileUpload) (*domain.Document, error) {
	res, err := s.uploader.Upload(ctx, folder, file.Ext, file.ContentType, bytes.NewReader(file.Data))
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return &domain.Document{Key: res.Key, URL: res.URL}, nil
}

func (s *documentStore) Delete(ctx context.Context, key string) error {
	if err := s.uploader.Delete(ctx, key); err != nil {
		return apperror.Storage(err)
	}
	return nil
}
