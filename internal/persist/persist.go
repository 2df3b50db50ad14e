// Package persist stores the decoder's last-known-value snapshot across
// restarts using an embedded bbolt database, so the decoder's snapshot
// holds known-good values immediately after a restart instead of waiting
// for the controller to resend them. Restored values are not republished
// to MQTT.
package persist

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/hovalvent/hovalventd/internal/store"
)

const (
	bucketKey = "snapshot"
)

// Store wraps a bbolt database holding the most recent Event for every
// datapoint name seen so far.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path and ensures its
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open persist db %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketKey))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create persist bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists ev, overwriting any value previously stored for its name.
func (s *Store) Save(ev store.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal snapshot event: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketKey))
		return b.Put([]byte(ev.Name), data)
	})
}

// LoadAll returns every persisted event, keyed by datapoint name.
func (s *Store) LoadAll() (map[string]store.Event, error) {
	out := make(map[string]store.Event)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketKey))
		return b.ForEach(func(k, v []byte) error {
			var ev store.Event
			if err := json.Unmarshal(v, &ev); err != nil {
				return fmt.Errorf("unmarshal snapshot event %s: %w", k, err)
			}
			out[string(k)] = ev
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
