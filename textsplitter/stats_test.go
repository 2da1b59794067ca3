package textsplitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/docpipe/textsplitter"
)

func TestComputeStats(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		stats := textsplitter.ComputeStats(nil)
		assert.Equal(t, textsplitter.Stats{}, stats)

		stats = textsplitter.ComputeStats([]string{})
		assert.Zero(t, stats.Count)
		assert.Zero(t, stats.AvgLength)
		assert.Zero(t, stats.MinLength)
		assert.Zero(t, stats.MaxLength)
	})

	t.Run("TwoChunks", func(t *testing.T) {
		stats := textsplitter.ComputeStats([]string{"ab", "abcd"})
		assert.Equal(t, 2, stats.Count)
		assert.Equal(t, 6, stats.TotalChars)
		assert.InDelta(t, 3.0, stats.AvgLength, 1e-9)
		assert.Equal(t, 2, stats.MinLength)
		assert.Equal(t, 4, stats.MaxLength)
	})

	t.Run("RuneLengths", func(t *testing.T) {
		stats := textsplitter.ComputeStats([]string{"日本語"})
		assert.Equal(t, 3, stats.TotalChars)
		assert.Equal(t, 3, stats.MinLength)
		assert.Equal(t, 3, stats.MaxLength)
	})
}
