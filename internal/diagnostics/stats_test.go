package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpWritesFileAndComputesStats(t *testing.T) {
	dir := t.TempDir()

	seq := []byte{0, 1, 0, 1, 0}
	data := []byte{0, 1, 0, 0, 0}
	// XOR at offset 0: 0,0,0,1,0 -> weight 1, one transition into the 1
	// and one out of it, longest run of 2 (the leading three zeros: two
	// repeats after the first).

	stats, err := Dump(dir, 0, "x^5+x^2+1", seq, data)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.HammingWeight)
	assert.Equal(t, 2, stats.FlipCount)
	assert.Equal(t, 2, stats.LongestRun)

	path := filepath.Join(dir, "unscrambled-off0-x^5+x^2+1.log")
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "00010", string(contents))
}

func TestDumpHandlesPeriodicOffset(t *testing.T) {
	dir := t.TempDir()

	seq := []byte{1, 0, 1}
	data := []byte{1, 0, 1, 1, 0, 1}

	stats, err := Dump(dir, 1, "p", seq, data)
	require.NoError(t, err)

	path := filepath.Join(dir, "unscrambled-off1-p.log")
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "110110", string(contents))
	assert.Equal(t, 4, stats.HammingWeight)
}
