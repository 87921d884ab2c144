// internal/embedding/cache_test.go
package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder derives a deterministic unit vector from the text hash and
// counts how often the model is actually invoked.
type fakeEmbedder struct {
	calls int
	dim   int
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.calls++
	sum := sha1.Sum([]byte(text))
	vec := make([]float32, f.dim)
	for i := range vec {
		vec[i] = float32(sum[i%len(sum)])
	}
	l2Normalize(vec)
	return vec, nil
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := f.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int  { return f.dim }
func (f *fakeEmbedder) ModelID() string { return "fake-model" }
func (f *fakeEmbedder) Close() error    { return nil }

func TestCachingEmbedder_MemoizesInMemory(t *testing.T) {
	fake := &fakeEmbedder{dim: 8}
	cache, err := NewCachingEmbedder(fake, t.TempDir())
	require.NoError(t, err)

	first, err := cache.EmbedText(context.Background(), "java developer")
	require.NoError(t, err)
	second, err := cache.EmbedText(context.Background(), "java developer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.calls)
}

func TestCachingEmbedder_SurvivesRestartViaDisk(t *testing.T) {
	dir := t.TempDir()

	first := &fakeEmbedder{dim: 8}
	cache, err := NewCachingEmbedder(first, dir)
	require.NoError(t, err)
	want, err := cache.EmbedText(context.Background(), "python analyst")
	require.NoError(t, err)

	// New cache over the same directory must hit disk, not the model.
	second := &fakeEmbedder{dim: 8}
	cache2, err := NewCachingEmbedder(second, dir)
	require.NoError(t, err)
	got, err := cache2.EmbedText(context.Background(), "python analyst")
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 0, second.calls)
}

func TestCachingEmbedder_NormalizedTextSharesEntry(t *testing.T) {
	fake := &fakeEmbedder{dim: 8}
	cache, err := NewCachingEmbedder(fake, "")
	require.NoError(t, err)

	_, err = cache.EmbedText(context.Background(), "Java   Developer")
	require.NoError(t, err)
	_, err = cache.EmbedText(context.Background(), "java developer")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 0, 3.75}

	decoded, err := decodeVector(encodeVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)
}

func TestVectorCodec_RejectsTruncatedPayload(t *testing.T) {
	buf := make([]byte, 4+4)
	binary.LittleEndian.PutUint32(buf, 3)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(1.0))

	_, err := decodeVector(buf)
	assert.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and collapses", "Java   Developer\t40 mins", "java developer 40 mins"},
		{"trims edges", "  hiring analysts  ", "hiring analysts"},
		{"folds fullwidth digits", "４０ minutes", "40 minutes"},
		{"drops control chars", "sql\x00 test", "sql test"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}
