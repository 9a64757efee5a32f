// Package diagnostics implements the correlator driver's per-improvement
// diagnostic dump: every time a polynomial raises the running best
// score, the candidate sequence is XORed against the captured frame and
// written out alongside three summary statistics, the way the original
// unscrambled-candidate dump did.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
)

// Stats summarizes one candidate dump: the Hamming weight (number of
// differing bits), the longest run of consecutive equal bits counted as
// repeats after the run's first bit (a run of three equal bits counts as
// 2), and the number of bit-value transitions across the XORed sequence.
type Stats struct {
	HammingWeight int
	LongestRun    int
	FlipCount     int
}

// Dump XORs seq (rotated by offset, treated as periodic) against data
// bit-for-bit, writes the result to
// "<dir>/unscrambled-off<offset>-<polyName>.log" as ASCII '0'/'1', and
// returns the three summary statistics computed along the way.
func Dump(dir string, offset int, polyName string, seq, data []byte) (Stats, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("diagnostics: creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("unscrambled-off%d-%s.log", offset, polyName))
	f, err := os.Create(path)
	if err != nil {
		return Stats{}, fmt.Errorf("diagnostics: creating %s: %w", path, err)
	}
	defer f.Close()

	n := len(seq)
	var stats Stats
	var prev byte
	var curRun int

	out := make([]byte, len(data))
	for i, d := range data {
		b := seq[(i+offset)%n] ^ d
		out[i] = '0' + b

		if i > 0 {
			if b == prev {
				curRun++
				if curRun > stats.LongestRun {
					stats.LongestRun = curRun
				}
			} else {
				stats.FlipCount++
				curRun = 0
			}
		}
		prev = b
		stats.HammingWeight += int(b)
	}

	if _, err := f.Write(out); err != nil {
		return Stats{}, fmt.Errorf("diagnostics: writing %s: %w", path, err)
	}

	return stats, nil
}
