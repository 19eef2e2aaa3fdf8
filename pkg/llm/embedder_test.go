package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbed struct {
	dim   int
	drop  bool
	err   error
	texts []string
}

func (f *fakeEmbed) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = append(f.texts, texts...)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for i := range texts {
		if f.drop && i == len(texts)-1 {
			break
		}
		out = append(out, make([]float32, f.dim))
	}
	return out, nil
}

func TestNewEmbedderWithConfig(t *testing.T) {
	emb, err := NewEmbedderWithConfig(EmbedderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text:latest", emb.Config.Model)
	assert.Equal(t, "http://localhost:11434", emb.Config.BaseURL)
}

func TestCreateEmbedding(t *testing.T) {
	chunks := []string{"This is the first chunk.", "And this is the second chunk."}

	fake := &fakeEmbed{dim: 768}
	emb := &Embedder{embed: fake}
	vectors, err := emb.CreateEmbedding(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for i := range vectors {
		assert.Len(t, vectors[i], 768)
	}
	assert.Equal(t, chunks, fake.texts)

	emb = &Embedder{embed: &fakeEmbed{dim: 768, drop: true}}
	_, err = emb.CreateEmbedding(context.Background(), chunks)
	assert.Error(t, err)

	emb = &Embedder{embed: &fakeEmbed{err: errors.New("connection refused")}}
	_, err = emb.CreateEmbedding(context.Background(), chunks)
	assert.Error(t, err)
}
