// internal/index/snapshot.go
package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Snapshot file layout, all little-endian:
//
//	magic "ARIX" | uint32 version | uint32 item count | uint32 dimension
//	then per item: int32 id | dimension * float32
const (
	snapshotMagic   = "ARIX"
	snapshotVersion = 1
)

// SaveSnapshot writes the index contents to disk atomically so a server
// restart can skip re-embedding the catalog.
func SaveSnapshot(path string, items []Item) error {
	dim := 0
	if len(items) > 0 {
		dim = len(items[0].Vector)
	}
	for _, it := range items {
		if len(it.Vector) != dim {
			return fmt.Errorf("item %d has dimension %d, want %d", it.ID, len(it.Vector), dim)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if _, err := w.WriteString(snapshotMagic); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot header: %w", err)
	}
	header := []uint32{snapshotVersion, uint32(len(items)), uint32(dim)}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			tmp.Close()
			return fmt.Errorf("write snapshot header: %w", err)
		}
	}
	for _, it := range items {
		if err := binary.Write(w, binary.LittleEndian, int32(it.ID)); err != nil {
			tmp.Close()
			return fmt.Errorf("write snapshot item %d: %w", it.ID, err)
		}
		for _, f := range it.Vector {
			if err := binary.Write(w, binary.LittleEndian, math.Float32bits(f)); err != nil {
				tmp.Close()
				return fmt.Errorf("write snapshot item %d: %w", it.ID, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// LoadSnapshot reads items previously written by SaveSnapshot.
func LoadSnapshot(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read snapshot magic: %w", err)
	}
	if string(magic) != snapshotMagic {
		return nil, fmt.Errorf("not an index snapshot: bad magic %q", magic)
	}

	var version, count, dim uint32
	for _, dst := range []*uint32{&version, &count, &dim} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("read snapshot header: %w", err)
		}
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	items := make([]Item, 0, count)
	for i := uint32(0); i < count; i++ {
		var id int32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("read snapshot item %d: %w", i, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			var bits uint32
			if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
				return nil, fmt.Errorf("read snapshot item %d: %w", i, err)
			}
			vec[j] = math.Float32frombits(bits)
		}
		items = append(items, Item{ID: int(id), Vector: vec})
	}
	return items, nil
}
