package storage

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

// MemoryBlobStore keeps documents in process memory
type MemoryBlobStore struct {
	mutex sync.RWMutex
	blobs map[uuid.UUID][]byte
}

// NewMemoryBlobStore creates an empty in-memory blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[uuid.UUID][]byte)}
}

func (s *MemoryBlobStore) Put(ctx context.Context, id uuid.UUID, data []byte) error {
	if err := checkContext(ctx, "put_blob"); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.blobs[id] = bytes.Clone(data)
	return nil
}

func (s *MemoryBlobStore) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if err := checkContext(ctx, "get_blob"); err != nil {
		return nil, err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	data, ok := s.blobs[id]
	if !ok {
		return nil, &StorageError{Op: "get_blob", Key: blobName(id), Err: domain.ErrNotFound}
	}
	return bytes.Clone(data), nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := checkContext(ctx, "delete_blob"); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.blobs, id)
	return nil
}

func (s *MemoryBlobStore) List(ctx context.Context, fn func(id uuid.UUID) error) error {
	s.mutex.RLock()
	ids := make([]uuid.UUID, 0, len(s.blobs))
	for id := range s.blobs {
		ids = append(ids, id)
	}
	s.mutex.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	for _, id := range ids {
		if err := checkContext(ctx, "list_blobs"); err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryBlobStore) Ping(context.Context) error { return nil }

// Len returns the number of stored blobs.
func (s *MemoryBlobStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.blobs)
}
