package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_SmallDiffIsOneChunk(t *testing.T) {
	chunks := Split("short diff", "openai")
	assert.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Total)
}

func TestSplit_GhProviderChunksLargeDiff(t *testing.T) {
	big := strings.Repeat("x", ghChunkSize*3+10)
	chunks := Split(big, "gh")
	assert.Greater(t, len(chunks), 1)

	var rebuilt strings.Builder
	for i, c := range chunks {
		assert.Equal(t, i+1, c.Index)
		assert.Equal(t, len(chunks), c.Total)
		rebuilt.WriteString(c.Text)
	}
	assert.Equal(t, big, rebuilt.String(), "chunks must be disjoint and order-preserving")
}

func TestSplit_NonGhProviderNeverChunksRealisticDiffs(t *testing.T) {
	big := strings.Repeat("y", ghChunkSize*3)
	chunks := Split(big, "anthropic")
	assert.Len(t, chunks, 1)
}
