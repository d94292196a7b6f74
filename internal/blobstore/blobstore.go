// Package blobstore provides write-only object storage backends for audit records.
package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cchalm/study-buddy/internal/telemetry"
)

// Store durably stores named objects. Writing to an existing name overwrites it
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
}

// FileSystemStore implements Store using the OS file system. Object names become paths relative to dir
type FileSystemStore struct {
	dir string // The directory names will be relative to
}

func NewFileSystemStore(dir string) *FileSystemStore {
	return &FileSystemStore{dir: dir}
}

func (s *FileSystemStore) Put(_ context.Context, name string, data []byte, _ string) error {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if rel, err := filepath.Rel(s.dir, path); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("object name '%s' escapes the store directory", name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

type tracedStore struct {
	next   Store
	tracer trace.Tracer
}

// WithTracing wraps a Store so each write runs inside a span
func WithTracing(next Store, tracer trace.Tracer) Store {
	return &tracedStore{next: next, tracer: tracer}
}

func (s *tracedStore) Put(ctx context.Context, name string, data []byte, contentType string) (err error) {
	ctx, span := s.tracer.Start(ctx, "audit.put", trace.WithAttributes(
		attribute.String("object.name", name),
		attribute.Int("object.size", len(data)),
	))
	defer func() { telemetry.EndSpan(span, err) }()

	return s.next.Put(ctx, name, data, contentType)
}
