package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// UploadService validates images and hands them to a FileStore.
type UploadService struct {
	files    ports.FileStore
	audit    ports.AuditRecorder
	maxBytes int64
}

// NewUploadService returns an UploadService. maxBytes <= 0 selects
// domain.MaxUploadBytes.
func NewUploadService(files ports.FileStore, audit ports.AuditRecorder, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = domain.MaxUploadBytes
	}
	return &UploadService{files: files, audit: audit, maxBytes: maxBytes}
}

// Upload stores an image under a random name. The type is detected from the
// content, not from the client's declared type or file name.
func (s *UploadService) Upload(ctx context.Context, cred policy.Credential, in ports.UploadInput) (*domain.StoredFile, error) {
	f, err := s.upload(ctx, cred, in)
	resource := "upload:rejected"
	if f != nil {
		resource = "upload:" + f.URL
	}
	recordOutcome(ctx, s.audit, "upload.create", resource, cred, err)
	return f, err
}

func (s *UploadService) upload(ctx context.Context, cred policy.Credential, in ports.UploadInput) (*domain.StoredFile, error) {
	if err := policy.Authorize(cred, policy.Authenticated, nil); err != nil {
		return nil, err
	}
	if in.Size > s.maxBytes {
		return nil, domain.ErrUploadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domain.ErrUploadTooLarge
	}

	mime := mimetype.Detect(data)
	ext, ok := domain.ImageExtension(mime.String())
	if !ok {
		return nil, domain.ErrUnsupportedUpload
	}

	name := uuid.NewString() + ext
	url, err := s.files.Put(ctx, name, mime.String(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &domain.StoredFile{URL: url, OriginalName: filepath.Base(in.Filename)}, nil
}
