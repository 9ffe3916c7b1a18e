package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"partfinder/internal/domain"
)

var (
	bucketIndex = []byte("index")

	keyFingerprint = []byte("fingerprint")
	keyDocuments   = []byte("documents")
	keyVectors     = []byte("vectors")
)

// Snapshot is the persisted form of a built index: the document set, one
// unit-normalized vector per document, and the fingerprint the set hashed
// to when the snapshot was written.
type Snapshot struct {
	Fingerprint string
	Documents   []domain.SearchableDocument
	Vectors     [][]float32
}

// IndexCache persists index snapshots in a bbolt file. A snapshot is only
// served back when its stored fingerprint matches the caller's; anything
// unreadable or inconsistent is a cache miss, never an error.
type IndexCache struct {
	path string
}

func NewIndexCache(path string) *IndexCache {
	return &IndexCache{path: path}
}

// Path returns the cache file location.
func (c *IndexCache) Path() string {
	return c.path
}

// Exists reports whether a cache file is present on disk.
func (c *IndexCache) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Load returns the cached snapshot if one exists and its fingerprint
// matches. Corrupt or stale entries report a miss.
func (c *IndexCache) Load(fingerprint string) (*Snapshot, bool) {
	if !c.Exists() {
		return nil, false
	}

	db, err := bbolt.Open(c.path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, false
	}
	defer db.Close()

	var snap Snapshot
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketIndex)
		if b == nil {
			return fmt.Errorf("index bucket missing")
		}

		stored := b.Get(keyFingerprint)
		if stored == nil || string(stored) != fingerprint {
			return fmt.Errorf("fingerprint mismatch")
		}
		snap.Fingerprint = string(stored)

		if err := json.Unmarshal(b.Get(keyDocuments), &snap.Documents); err != nil {
			return fmt.Errorf("corrupt documents entry: %w", err)
		}
		if err := json.Unmarshal(b.Get(keyVectors), &snap.Vectors); err != nil {
			return fmt.Errorf("corrupt vectors entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false
	}

	if len(snap.Vectors) != len(snap.Documents) || len(snap.Documents) == 0 {
		return nil, false
	}
	return &snap, true
}

// Save writes the snapshot in a single transaction, replacing any previous
// entry. bbolt commits atomically, so readers never observe a half-written
// snapshot.
func (c *IndexCache) Save(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(c.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	docs, err := json.Marshal(snap.Documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	vecs, err := json.Marshal(snap.Vectors)
	if err != nil {
		return fmt.Errorf("failed to encode vectors: %w", err)
	}

	return db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketIndex); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketIndex)
		if err != nil {
			return err
		}

		if err := b.Put(keyFingerprint, []byte(snap.Fingerprint)); err != nil {
			return err
		}
		if err := b.Put(keyDocuments, docs); err != nil {
			return err
		}
		return b.Put(keyVectors, vecs)
	})
}
