package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/backlog/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")
)

const (
	keySnapshot = "snapshot"
	keySavedAt  = "saved_at"
)

// SnapshotStore implements domain.SnapshotCache using BoltDB.
type SnapshotStore struct {
	db  *bolt.DB
	now func() time.Time
	mu  sync.RWMutex // Protects memory cache

	// In-memory copy for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewSnapshotStore opens the cache for serverURL under baseCacheDir.
// An empty baseCacheDir keeps the snapshot in memory only.
func NewSnapshotStore(baseCacheDir, serverURL string) (*SnapshotStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &SnapshotStore{cache: make(map[string][]byte), now: time.Now}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "backlog.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntries, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, cache: make(map[string][]byte), now: time.Now}, nil
}

// hashServerURL keeps snapshots of different servers apart
func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close releases the database; later calls are no-ops
func (s *SnapshotStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// === Generic helpers ===

func (s *SnapshotStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

// setAll writes several keys in one transaction
func (s *SnapshotStore) setAll(writes map[string]map[string]interface{}) error {
	encoded := make(map[string]map[string][]byte, len(writes))
	for bucket, kv := range writes {
		encoded[bucket] = make(map[string][]byte, len(kv))
		for key, value := range kv {
			data, err := json.Marshal(value)
			if err != nil {
				return err
			}
			encoded[bucket][key] = data
		}
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			for bucket, kv := range encoded {
				b := tx.Bucket([]byte(bucket))
				for key, data := range kv {
					if err := b.Put([]byte(key), data); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	for bucket, kv := range encoded {
		for key, data := range kv {
			s.cache[bucket+":"+key] = data
		}
	}
	s.mu.Unlock()
	return nil
}

// === Snapshot ===

// GetSnapshot returns the last saved entries and when they were saved
func (s *SnapshotStore) GetSnapshot() ([]domain.Entry, time.Time, bool) {
	var entries []domain.Entry
	if !s.get(bucketEntries, keySnapshot, &entries) {
		return nil, time.Time{}, false
	}
	var savedAt time.Time
	s.get(bucketMeta, keySavedAt, &savedAt)
	return entries, savedAt, true
}

// SaveSnapshot replaces the stored entries
func (s *SnapshotStore) SaveSnapshot(entries []domain.Entry) error {
	if entries == nil {
		entries = []domain.Entry{}
	}
	return s.setAll(map[string]map[string]interface{}{
		string(bucketEntries): {keySnapshot: entries},
		string(bucketMeta):    {keySavedAt: s.now().UTC()},
	})
}

// Invalidate wipes every bucket
func (s *SnapshotStore) Invalidate() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntries, bucketMeta} {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
