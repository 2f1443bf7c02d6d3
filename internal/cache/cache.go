// Package cache provides a content-addressed, in-process store for embedding
// vectors keyed by text+model+option fingerprint, with per-entry TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// DefaultTTL is the default lifetime for cached embeddings.
const DefaultTTL = 24 * time.Hour

// DefaultSize is the default LRU capacity.
const DefaultSize = 1024

// Entry holds the cached fields needed to reconstruct an EmbeddingResponse.
// Usage may be zero for entries stored without token counts.
type Entry struct {
	Embeddings [][]float64
	Model      string
	Usage      llm.Usage
}

type record struct {
	entry     Entry
	expiresAt time.Time
}

// Manager is an LRU cache with per-entry expiry checked on read. A
// read-then-write race on a miss is acceptable: the same key may be fetched
// twice, never corrupted.
type Manager struct {
	store *lru.Cache[string, record]
}

// NewManager creates a cache with the given capacity; size <= 0 uses
// DefaultSize.
func NewManager(size int) (*Manager, error) {
	if size <= 0 {
		size = DefaultSize
	}
	store, err := lru.New[string, record](size)
	if err != nil {
		return nil, err
	}
	return &Manager{store: store}, nil
}

// Key derives the content address for a set of identifying parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for key, or false on a miss or an expired
// entry. Expired entries are removed on read.
func (m *Manager) Get(key string) (*Entry, bool) {
	rec, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(rec.expiresAt) {
		m.store.Remove(key)
		return nil, false
	}
	entry := rec.entry
	return &entry, true
}

// Put stores an entry under key for the given TTL; ttl <= 0 uses DefaultTTL.
func (m *Manager) Put(key string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.store.Add(key, record{entry: entry, expiresAt: time.Now().Add(ttl)})
}

// Purge drops every entry.
func (m *Manager) Purge() {
	m.store.Purge()
}

// Len returns the number of live entries, including any not yet evicted
// expired records.
func (m *Manager) Len() int {
	return m.store.Len()
}
