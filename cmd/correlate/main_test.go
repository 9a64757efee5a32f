package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatchDrake/lfsrintruder/internal/lfsr"
)

func writeBitFile(t *testing.T, path string, bits []byte) {
	t.Helper()
	out := make([]byte, len(bits))
	for i, b := range bits {
		out[i] = '0' + b
	}
	require.NoError(t, os.WriteFile(path, out, 0o644))
}

func TestRunFindsWinnerAndDescrambles(t *testing.T) {
	dir := t.TempDir()

	desc, err := lfsr.NewDescriptor([]int{10, 3, 1})
	require.NoError(t, err)
	seq, err := desc.Generate(1023)
	require.NoError(t, err)

	inputPath := filepath.Join(dir, "capture.log")
	writeBitFile(t, inputPath, seq)

	polyDB := filepath.Join(dir, "all-irredpoly.txt")
	require.NoError(t, os.WriteFile(polyDB, []byte("7,6,1\n10,3,1\n15,1\n"), 0o644))

	var stdout bytes.Buffer
	code := run([]string{
		"--poly-db", polyDB,
		"--candidates-dir", filepath.Join(dir, "candidates"),
		"--output-dir", filepath.Join(dir, "descrambled"),
		"--frame-dump-dir", dir,
		"--dump-candidates=false",
		inputPath,
	}, &stdout)

	assert.Equal(t, 0, code)
	// With a single frame every candidate gets exactly one hit, so the
	// earliest candidate (the first polynomial in the database) wins.
	assert.Contains(t, stdout.String(), "best match: x^7 + x^6 + x^1 + 1")
	assert.FileExists(t, filepath.Join(dir, "descrambled", "descrambled-000001.log"))
}

func TestRunFailsWhenPolyDBMissing(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "capture.log")
	writeBitFile(t, inputPath, []byte{0, 1, 0, 1})

	var stdout bytes.Buffer
	code := run([]string{"--poly-db", filepath.Join(dir, "missing.txt"), inputPath}, &stdout)
	assert.NotEqual(t, 0, code)
}

func TestRunRequiresAtLeastOneInputFile(t *testing.T) {
	var stdout bytes.Buffer
	code := run(nil, &stdout)
	assert.NotEqual(t, 0, code)
}
