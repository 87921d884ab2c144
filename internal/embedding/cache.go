// internal/embedding/cache.go
package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// CachingEmbedder memoizes vectors per (model, text) pair in memory and on
// disk, so catalog rebuilds and repeated queries skip the model entirely.
type CachingEmbedder struct {
	inner Embedder
	dir   string

	mu  sync.RWMutex
	mem map[string][]float32
}

func NewCachingEmbedder(inner Embedder, dir string) (*CachingEmbedder, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create embedding cache dir: %w", err)
		}
	}
	return &CachingEmbedder{
		inner: inner,
		dir:   dir,
		mem:   make(map[string][]float32),
	}, nil
}

func (c *CachingEmbedder) ModelID() string { return c.inner.ModelID() }

func (c *CachingEmbedder) Dimension() int { return c.inner.Dimension() }

func (c *CachingEmbedder) Close() error { return c.inner.Close() }

func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	c.mu.RLock()
	vec, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	if vec, ok := c.readDisk(key); ok {
		c.store(key, vec)
		return vec, nil
	}

	vec, err := c.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(key, vec)
	c.writeDisk(key, vec)
	return vec, nil
}

func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := c.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (c *CachingEmbedder) cacheKey(text string) string {
	h := sha1.New()
	h.Write([]byte(c.inner.ModelID()))
	h.Write([]byte{0})
	h.Write([]byte(NormalizeText(text)))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CachingEmbedder) store(key string, vec []float32) {
	c.mu.Lock()
	c.mem[key] = vec
	c.mu.Unlock()
}

func (c *CachingEmbedder) path(key string) string {
	return filepath.Join(c.dir, key+".vec")
}

// Vector files hold a little-endian uint32 length followed by that many
// little-endian float32 values.
func (c *CachingEmbedder) readDisk(key string) ([]float32, bool) {
	if c.dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	vec, err := decodeVector(data)
	if err != nil {
		return nil, false
	}
	return vec, true
}

// writeDisk persists via a temp file and rename so readers never observe a
// partially written vector. Failures are silent; the cache is best-effort.
func (c *CachingEmbedder) writeDisk(key string, vec []float32) {
	if c.dir == "" {
		return
	}
	tmp, err := os.CreateTemp(c.dir, "vec-*")
	if err != nil {
		return
	}
	if _, err := tmp.Write(encodeVector(vec)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
	}
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4+4*len(vec))
	binary.LittleEndian.PutUint32(buf, uint32(len(vec)))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4+4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("vector file too short")
	}
	n := int(binary.LittleEndian.Uint32(data))
	if len(data) != 4+4*n {
		return nil, fmt.Errorf("vector file length mismatch: header %d, payload %d bytes", n, len(data)-4)
	}
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
	}
	return vec, nil
}
