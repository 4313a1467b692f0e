package storage

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/openiap/openflow/internal/federation"
)

var (
	// ErrNotResolved indicates no federation metadata has been stored yet.
	ErrNotResolved = errors.New("federation metadata has not been resolved")
	// ErrInvalidMetadata indicates a nil metadata value was provided.
	ErrInvalidMetadata = errors.New("federation metadata must not be nil")
)

// Storage keeps the federation metadata most recently resolved by the host.
type Storage interface {
	GetMetadata() (Entry, error)
	SetMetadata(md *federation.Metadata) error
}

// Entry is a stored metadata value and the time it was stored.
type Entry struct {
	Metadata  federation.Metadata
	UpdatedAt time.Time
}

// MemoryStorage keeps metadata in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	clock func() time.Time

	mu       sync.RWMutex
	entry    Entry
	resolved bool
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// GetMetadata returns a defensive copy of the stored metadata.
func (s *MemoryStorage) GetMetadata() (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.resolved {
		return Entry{}, ErrNotResolved
	}
	return cloneEntry(s.entry), nil
}

// SetMetadata replaces the stored metadata with a copy of md.
func (s *MemoryStorage) SetMetadata(md *federation.Metadata) error {
	if md == nil {
		return ErrInvalidMetadata
	}

	entry := cloneEntry(Entry{Metadata: *md, UpdatedAt: s.clock()})

	s.mu.Lock()
	s.entry = entry
	s.resolved = true
	s.mu.Unlock()

	return nil
}

func cloneEntry(src Entry) Entry {
	out := src
	out.Metadata.Cert = slices.Clone(src.Metadata.Cert)
	return out
}
