// Package revocation tracks withdrawn delegation grants.
//
// A delegator cannot retract a signature it has already handed out, so
// verifiers that honor revocation keep a list of withdrawn grants, keyed by
// the grant's signature. An entry expires once the delegation window itself
// has closed.
package revocation

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/relaykit/delegation"
)

// Revoked records a withdrawn delegation grant.
type Revoked struct {
	Sig       string    `json:"sig"`
	RevokedAt time.Time `json:"revoked_at"`
	RevokedBy string    `json:"revoked_by,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Store defines the interface for revocation list storage backends.
type Store interface {
	Add(ctx context.Context, r Revoked) error
	IsRevoked(ctx context.Context, sig string) (bool, error)
	Remove(ctx context.Context, sig string) error
	List(ctx context.Context) ([]Revoked, error)
	Cleanup(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// MemoryStore implements an in-memory revocation list.
type MemoryStore struct {
	mu     sync.RWMutex
	grants map[string]Revoked
}

// NewMemoryStore creates a new in-memory revocation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grants: make(map[string]Revoked),
	}
}

// Add adds a grant to the revocation list.
func (s *MemoryStore) Add(_ context.Context, r Revoked) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[r.Sig] = r
	return nil
}

// IsRevoked checks if the grant with the given signature is revoked.
func (s *MemoryStore) IsRevoked(_ context.Context, sig string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.grants[sig]
	return exists, nil
}

// Remove removes a grant from the revocation list.
func (s *MemoryStore) Remove(_ context.Context, sig string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, sig)
	return nil
}

// List returns all currently revoked grants.
func (s *MemoryStore) List(_ context.Context) ([]Revoked, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grants := make([]Revoked, 0, len(s.grants))
	for _, r := range s.grants {
		grants = append(grants, r)
	}
	return grants, nil
}

// Cleanup removes entries whose delegation window has closed. Entries
// without an expiry stay on the list.
func (s *MemoryStore) Cleanup(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for sig, r := range s.grants {
		if !r.ExpiresAt.IsZero() && r.ExpiresAt.Before(now) {
			delete(s.grants, sig)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of entries in the revocation list.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grants), nil
}

// Manager handles revocation list operations with automatic cleanup.
type Manager struct {
	store   Store
	cleanup chan struct{}
}

// NewManager creates a new revocation manager with the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:   store,
		cleanup: make(chan struct{}),
	}
}

// Start begins the background cleanup routine.
func (m *Manager) Start(ctx context.Context, cleanupInterval time.Duration) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.cleanup:
				return
			case <-ticker.C:
				m.store.Cleanup(ctx)
			}
		}
	}()
}

// Stop stops the background cleanup routine.
func (m *Manager) Stop() {
	close(m.cleanup)
}

// RevokeTag adds a delegation tag to the revocation list. The entry expires
// at the tag's created_at< bound, if it has one.
func (m *Manager) RevokeTag(ctx context.Context, tag *delegation.Tag, revokedBy, reason string) error {
	return m.store.Add(ctx, Revoked{
		Sig:       SigKey(tag),
		RevokedAt: time.Now(),
		RevokedBy: revokedBy,
		Reason:    reason,
		ExpiresAt: windowEnd(tag),
	})
}

// IsRevoked checks if a grant signature is revoked.
func (m *Manager) IsRevoked(ctx context.Context, sig string) (bool, error) {
	return m.store.IsRevoked(ctx, sig)
}

// IsRevokedTag checks if a delegation tag is revoked.
func (m *Manager) IsRevokedTag(ctx context.Context, tag *delegation.Tag) (bool, error) {
	return m.store.IsRevoked(ctx, SigKey(tag))
}

// List returns all revoked grants.
func (m *Manager) List(ctx context.Context) ([]Revoked, error) {
	return m.store.List(ctx)
}

// Count returns the number of revoked grants.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

// SigKey returns the revocation-list key for a tag: its signature in hex.
// The signature is the one component unique per grant.
func SigKey(tag *delegation.Tag) string {
	return hex.EncodeToString(tag.Signature().Serialize())
}

// windowEnd derives the natural end of a grant from its created_at< bound.
// The first such bound wins; grants without one never expire off the list.
func windowEnd(tag *delegation.Tag) time.Time {
	for _, c := range tag.Conditions() {
		if before, ok := c.(delegation.CreatedBefore); ok {
			return time.Unix(int64(before), 0)
		}
	}
	return time.Time{}
}
