package eventlog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/catalogd/backend/domain"
)

var (
	bucketEvents   = []byte("events")
	bucketStreams  = []byte("streams")
	bucketRegistry = []byte("registry")
)

// Store is the append-only event log backed by BoltDB. Events are committed
// at the log tail under a global sequence; a stream index keyed by product id
// serves per-entity loads. There is no update or delete primitive:
// corrections are new compensating events.
type Store struct {
	db *bolt.DB
}

// Open initializes the Bolt file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketEvents, bucketStreams, bucketRegistry} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// AllocateID returns a new product id. Ids come from a dedicated sequence,
// so they are monotonic and unique, independent of event sequence numbers.
func (s *Store) AllocateID() (uint64, error) {
	if s == nil || s.db == nil {
		return 0, storageErr("allocate product id", bolt.ErrDatabaseNotOpen)
	}
	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		n, err := tx.Bucket(bucketRegistry).NextSequence()
		if err != nil {
			return err
		}
		id = n
		return nil
	})
	if err != nil {
		return 0, storageErr("allocate product id", err)
	}
	return id, nil
}

// Append serializes the event and commits it at the log tail, returning the
// assigned global sequence number.
func (s *Store) Append(evt domain.Event) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, storageErr("append event", bolt.ErrDatabaseNotOpen)
	}
	if evt == nil {
		return 0, domain.ErrInvalidPayload
	}

	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		events := tx.Bucket(bucketEvents)
		n, err := events.NextSequence()
		if err != nil {
			return err
		}
		seq = n

		data, err := encode(seq, evt)
		if err != nil {
			return err
		}
		key := eventKey(seq)
		if err := events.Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(bucketStreams).Put(streamKey(evt.Subject(), seq), key)
	})
	if err != nil {
		return 0, storageErr("append event", err)
	}
	return seq, nil
}

// Load returns the ordered event history of one product. An empty slice
// means the product has no stream; that is not an error.
func (s *Store) Load(productID uint64) ([]domain.Event, error) {
	if s == nil || s.db == nil {
		return nil, storageErr("load stream", bolt.ErrDatabaseNotOpen)
	}

	var events []domain.Event
	err := s.db.View(func(tx *bolt.Tx) error {
		log := tx.Bucket(bucketEvents)
		c := tx.Bucket(bucketStreams).Cursor()
		prefix := streamPrefix(productID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			data := log.Get(v)
			if data == nil {
				continue
			}
			evt, err := decode(data)
			if err != nil {
				return err
			}
			events = append(events, evt)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("load stream", err)
	}
	return events, nil
}

// LoadAll returns every event in global append order. Drives full rebuilds.
func (s *Store) LoadAll() ([]domain.Event, error) {
	if s == nil || s.db == nil {
		return nil, storageErr("load all events", bolt.ErrDatabaseNotOpen)
	}

	var events []domain.Event
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEvents).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			evt, err := decode(v)
			if err != nil {
				return err
			}
			events = append(events, evt)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("load all events", err)
	}
	return events, nil
}

// Count returns the number of appended events.
func (s *Store) Count() (int, error) {
	if s == nil || s.db == nil {
		return 0, storageErr("count events", bolt.ErrDatabaseNotOpen)
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketEvents).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, storageErr("count events", err)
	}
	return count, nil
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func eventKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// streamKey orders a product's events by global sequence under a fixed-width
// prefix, so a cursor seek over the prefix yields the stream in append order.
func streamKey(productID, seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d_%020d", productID, seq))
}

func streamPrefix(productID uint64) []byte {
	return []byte(fmt.Sprintf("%020d_", productID))
}

// storageErr classifies an error as fatal storage failure unless it already
// carries a domain code (schema errors from decode propagate unchanged).
func storageErr(msg string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeStorage, msg, err)
}
