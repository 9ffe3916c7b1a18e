package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"partfinder/internal/domain"
)

func testSnapshot() *Snapshot {
	docs := []domain.SearchableDocument{
		{
			Content: "Product Name: SAFETY WARNING LABEL",
			Product: domain.Product{ProductID: "LAB-AB1234-X-P3", ReferenceNumber: "AB1234-X", Category: "Labels"},
			Metadata: domain.Metadata{
				ProductID: "LAB-AB1234-X-P3", Reference: "AB1234-X", Category: "Labels",
			},
		},
		{
			Content: "Product Name: PALLET TRUCK",
			Product: domain.Product{ProductID: "HAN-EF9012-P9", ReferenceNumber: "EF9012", Category: "Handling Equipment"},
			Metadata: domain.Metadata{
				ProductID: "HAN-EF9012-P9", Reference: "EF9012", Category: "Handling Equipment",
			},
		},
	}
	return &Snapshot{
		Fingerprint: "abc123",
		Documents:   docs,
		Vectors:     [][]float32{{1, 0, 0}, {0, 1, 0}},
	}
}

func TestCacheSaveLoadRoundTrip(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "index.db"))
	want := testSnapshot()

	if err := cache.Save(want); err != nil {
		t.Fatal(err)
	}
	if !cache.Exists() {
		t.Fatal("cache file not created")
	}

	got, ok := cache.Load(want.Fingerprint)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Fingerprint != want.Fingerprint {
		t.Errorf("fingerprint %q, want %q", got.Fingerprint, want.Fingerprint)
	}
	if !reflect.DeepEqual(got.Documents, want.Documents) {
		t.Errorf("documents did not survive the round trip")
	}
	if !reflect.DeepEqual(got.Vectors, want.Vectors) {
		t.Errorf("vectors did not survive the round trip")
	}
}

func TestCacheFingerprintMismatchIsMiss(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "index.db"))
	if err := cache.Save(testSnapshot()); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Load("different-fingerprint"); ok {
		t.Error("stale snapshot served as a hit")
	}
}

func TestCacheMissingFileIsMiss(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "nonexistent.db"))

	if cache.Exists() {
		t.Error("Exists reported a missing file")
	}
	if _, ok := cache.Load("abc123"); ok {
		t.Error("missing file served as a hit")
	}
}

func TestCacheCorruptFileIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	if err := os.WriteFile(path, []byte("not a bbolt file"), 0600); err != nil {
		t.Fatal(err)
	}

	cache := NewIndexCache(path)
	if _, ok := cache.Load("abc123"); ok {
		t.Error("corrupt file served as a hit")
	}
}

func TestCacheSaveReplacesPreviousSnapshot(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "index.db"))

	first := testSnapshot()
	if err := cache.Save(first); err != nil {
		t.Fatal(err)
	}

	second := testSnapshot()
	second.Fingerprint = "def456"
	second.Documents = second.Documents[:1]
	second.Vectors = second.Vectors[:1]
	if err := cache.Save(second); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Load(first.Fingerprint); ok {
		t.Error("replaced snapshot still loadable")
	}
	got, ok := cache.Load(second.Fingerprint)
	if !ok {
		t.Fatal("expected hit for replacing snapshot")
	}
	if len(got.Documents) != 1 {
		t.Errorf("expected 1 document, got %d", len(got.Documents))
	}
}

func TestCacheSaveCreatesDirectory(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "nested", "dir", "index.db"))

	if err := cache.Save(testSnapshot()); err != nil {
		t.Fatalf("save into missing directory failed: %v", err)
	}
	if !cache.Exists() {
		t.Error("cache file not created under nested directory")
	}
}

func TestCacheInconsistentSnapshotIsMiss(t *testing.T) {
	cache := NewIndexCache(filepath.Join(t.TempDir(), "index.db"))

	snap := testSnapshot()
	snap.Vectors = snap.Vectors[:1] // one vector short
	if err := cache.Save(snap); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Load(snap.Fingerprint); ok {
		t.Error("document/vector count mismatch served as a hit")
	}
}

func TestBuildLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	first := NewBuildLock(path)
	if err := first.Acquire(); err != nil {
		t.Fatal(err)
	}

	second := NewBuildLock(path)
	if err := second.Acquire(); err == nil {
		second.Release()
		t.Error("second acquire on a held lock should fail")
	}

	first.Release()

	if err := second.Acquire(); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
	second.Release()
}
