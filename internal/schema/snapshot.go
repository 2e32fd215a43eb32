package schema

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aidanlsb/rpcsh/internal/atomicfile"
)

// SaveSnapshot writes the catalogue as msgpack compressed with zstd.
func SaveSnapshot(w io.Writer, raw *RawCatalogue) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(raw); err != nil {
		return fmt.Errorf("failed to encode catalogue snapshot: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// LoadSnapshot reads a catalogue written by SaveSnapshot.
func LoadSnapshot(r io.Reader) (*RawCatalogue, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	dec := msgpack.NewDecoder(zr)
	dec.UseLooseInterfaceDecoding(true)

	var raw RawCatalogue
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue snapshot: %w", err)
	}
	return &raw, nil
}

// SnapshotPath returns where the snapshot of the catalogue at source is kept.
func SnapshotPath(cacheDir, source string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	return filepath.Join(cacheDir, fmt.Sprintf("catalogue-%016x.msgpack.zst", h.Sum64()))
}

// LoadCached loads the catalogue at source, going through a snapshot in
// cacheDir. The snapshot is used when it is newer than source and rewritten
// otherwise. An empty cacheDir disables the snapshot.
func LoadCached(source, cacheDir string) (*Catalogue, error) {
	if cacheDir == "" {
		return Load(source)
	}

	srcInfo, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", source, err)
	}

	snap := SnapshotPath(cacheDir, source)
	if info, err := os.Stat(snap); err == nil && info.ModTime().After(srcInfo.ModTime()) {
		if raw, err := readSnapshotFile(snap); err == nil {
			return Build(raw)
		}
	}

	raw, err := LoadRaw(source)
	if err != nil {
		return nil, err
	}
	// Snapshot write failures are not fatal.
	_ = writeSnapshotFile(snap, raw)
	return Build(raw)
}

func readSnapshotFile(path string) (*RawCatalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSnapshot(f)
}

func writeSnapshotFile(path string, raw *RawCatalogue) error {
	return atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return SaveSnapshot(w, raw)
	})
}
