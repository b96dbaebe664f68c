package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// FSBlobStore keeps documents as <id>.xml files under a base directory
type FSBlobStore struct {
	baseDir string
}

// NewFSBlobStore creates the base directory when missing
func NewFSBlobStore(baseDir string) (*FSBlobStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &StorageError{
			Op:  "create_store",
			Err: fmt.Errorf("failed to create base directory: %w", err),
		}
	}
	return &FSBlobStore{baseDir: baseDir}, nil
}

// Put writes the document through a temporary file so readers never see a
// partial blob.
func (s *FSBlobStore) Put(ctx context.Context, id uuid.UUID, data []byte) error {
	const op = "put_blob"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	name := blobName(id)
	tmp, err := os.CreateTemp(s.baseDir, name+".*.tmp")
	if err != nil {
		return &StorageError{Op: op, Key: name, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: op, Key: name, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &StorageError{Op: op, Key: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: op, Key: name, Err: err}
	}

	if err := checkContext(ctx, op); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.baseDir, name)); err != nil {
		return &StorageError{Op: op, Key: name, Err: err}
	}
	return nil
}

// Get reads the document stored for id
func (s *FSBlobStore) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	const op = "get_blob"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	name := blobName(id)
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StorageError{Op: op, Key: name, Err: domain.ErrNotFound}
	}
	if err != nil {
		return nil, &StorageError{Op: op, Key: name, Err: err}
	}
	return data, nil
}

// Delete removes the document stored for id. Missing blobs are not an error.
func (s *FSBlobStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "delete_blob"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	name := blobName(id)
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: op, Key: name, Err: err}
	}
	return nil
}

// List walks the base directory
func (s *FSBlobStore) List(ctx context.Context, fn func(id uuid.UUID) error) error {
	const op = "list_blobs"

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}

	for _, entry := range entries {
		if err := checkContext(ctx, op); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		id, ok := parseBlobName(entry.Name())
		if !ok {
			continue
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks that the base directory is still there
func (s *FSBlobStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	if !info.IsDir() {
		return &StorageError{Op: "ping", Err: fmt.Errorf("%s is not a directory", s.baseDir)}
	}
	return nil
}
