package weather

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/jllopis/agora/pkg/errors"
)

var bucketObservations = []byte("observations")

// Cache stores the last good observation per city in a BoltDB file so
// a dead upstream can still answer with stale-but-real data.
type Cache struct {
	db *bolt.DB
}

type cachedObservation struct {
	Observation Observation `json:"observation"`
	CachedAt    time.Time   `json:"cached_at"`
}

// OpenCache opens (or creates) the cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to create weather cache directory", err).
			WithContext("path", path)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to open weather cache", err).
			WithContext("path", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketObservations)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.New(errors.CodeInternal, "failed to initialize weather cache", err).
			WithContext("path", path)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying DB handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put stores an observation as the last known good value for its city.
func (c *Cache) Put(city string, obs Observation) error {
	entry := cachedObservation{Observation: obs, CachedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketObservations).Put([]byte(cacheKey(city)), data)
	})
}

// Get returns the cached observation for a city, if present, along
// with the time it was stored.
func (c *Cache) Get(city string) (Observation, time.Time, bool, error) {
	var entry cachedObservation
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketObservations).Get([]byte(cacheKey(city)))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return Observation{}, time.Time{}, false, err
	}
	return entry.Observation, entry.CachedAt, found, nil
}

func cacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
