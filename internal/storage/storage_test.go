package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openiap/openflow/internal/federation"
)

func TestNewMemoryStorageIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if _, err := store.GetMetadata(); !errors.Is(err, ErrNotResolved) {
		t.Fatalf("expected ErrNotResolved, got %v", err)
	}
}

func TestSetMetadataUpdatesState(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStorage()
	store.clock = func() time.Time { return now }

	md := &federation.Metadata{
		EntityID:            "https://idp.example.com",
		IdentityProviderURL: "https://idp.example.com/sso",
		Cert:                federation.Certificates{"a", "b"},
	}
	if err := store.SetMetadata(md); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetMetadata()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Metadata.EntityID != md.EntityID || len(got.Metadata.Cert) != 2 {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("expected updatedAt %s, got %s", now, got.UpdatedAt)
	}

	// ensure mutation safety
	md.Cert[0] = "mutated"
	got.Metadata.Cert[1] = "mutated"
	again, _ := store.GetMetadata()
	if again.Metadata.Cert[0] != "a" || again.Metadata.Cert[1] != "b" {
		t.Fatalf("expected defensive copies, got %v", again.Metadata.Cert)
	}
}

func TestSetMetadataRejectsNil(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.SetMetadata(nil); !errors.Is(err, ErrInvalidMetadata) {
		t.Fatalf("expected ErrInvalidMetadata, got %v", err)
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			md := &federation.Metadata{EntityID: "idp", Cert: federation.Certificates{"c"}}
			if err := store.SetMetadata(md); err != nil {
				t.Errorf("SetMetadata failed: %v", err)
			}
		}()

		go func() {
			defer wg.Done()
			if _, err := store.GetMetadata(); err != nil && !errors.Is(err, ErrNotResolved) {
				t.Errorf("GetMetadata failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if _, err := store.GetMetadata(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
