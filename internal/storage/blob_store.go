// Package storage keeps the raw uploaded NF-e documents, one blob per
// invoice id.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const blobExt = ".xml"

// BlobStore stores raw documents keyed by invoice id. Get returns an error
// matching domain.ErrNotFound when the blob does not exist.
type BlobStore interface {
	Put(ctx context.Context, id uuid.UUID, data []byte) error
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List calls fn for every stored blob id. Objects whose name is not an
	// invoice id are skipped.
	List(ctx context.Context, fn func(id uuid.UUID) error) error
	Ping(ctx context.Context) error
}

// StorageError represents a failed blob store operation
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func blobName(id uuid.UUID) string {
	return id.String() + blobExt
}

// parseBlobName returns the id encoded in an object name, if any.
func parseBlobName(name string) (uuid.UUID, bool) {
	base, ok := strings.CutSuffix(name, blobExt)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(base)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return &StorageError{Op: op, Err: ctx.Err()}
	default:
		return nil
	}
}
