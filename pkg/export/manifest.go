package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

var outputsBucket = []byte("outputs")

// Manifest records which parameter fingerprint produced each output name,
// across runs.
type Manifest struct {
	db *bolt.DB
}

// OpenManifest opens or creates the manifest database at path.
func OpenManifest(path string) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(outputsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init manifest: %w", err)
	}
	return &Manifest{db: db}, nil
}

// Close releases the database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Claim records name for fingerprint. A name already owned by another
// fingerprint is a *CollisionError; the same fingerprint may rewrite it.
func (m *Manifest) Claim(name, fingerprint string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(outputsBucket)
		if prev := b.Get([]byte(name)); prev != nil && string(prev) != fingerprint {
			return &CollisionError{Name: name, Existing: string(prev), Incoming: fingerprint}
		}
		return b.Put([]byte(name), []byte(fingerprint))
	})
}

// Lookup returns the fingerprint recorded for name.
func (m *Manifest) Lookup(name string) (string, bool, error) {
	var fp []byte
	err := m.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(outputsBucket).Get([]byte(name)); v != nil {
			fp = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return string(fp), fp != nil, nil
}

// Forget releases name so another parameter set may claim it.
func (m *Manifest) Forget(name string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(outputsBucket).Delete([]byte(name))
	})
}

// Entries returns every recorded name and fingerprint.
func (m *Manifest) Entries() (map[string]string, error) {
	out := make(map[string]string)
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(outputsBucket).ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	return out, err
}
