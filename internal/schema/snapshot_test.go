package schema

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotRoundTrip(t *testing.T) {
	raw, err := Decode([]byte(testCatalogue))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var buf bytes.Buffer
	if err := SaveSnapshot(&buf, raw); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot(&buf)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	want, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Build(loaded)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Methods, got.Methods); diff != "" {
		t.Errorf("methods mismatch after snapshot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Services, got.Services); diff != "" {
		t.Errorf("services mismatch after snapshot (-want +got):\n%s", diff)
	}
}

func TestLoadCached(t *testing.T) {
	source := writeCatalogue(t, testCatalogue)
	cacheDir := t.TempDir()

	first, err := LoadCached(source, cacheDir)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	snap := SnapshotPath(cacheDir, source)
	if _, err := os.Stat(snap); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	// Make the snapshot clearly newer than the source.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(snap, future, future); err != nil {
		t.Fatal(err)
	}

	second, err := LoadCached(source, cacheDir)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if diff := cmp.Diff(first.Methods, second.Methods); diff != "" {
		t.Errorf("cached catalogue differs (-first +second):\n%s", diff)
	}
}

func TestLoadCachedWithoutCacheDir(t *testing.T) {
	cat, err := LoadCached(writeCatalogue(t, testCatalogue), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Methods) != 3 {
		t.Errorf("got %d methods, want 3", len(cat.Methods))
	}
}
