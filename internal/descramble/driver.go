// Package descramble implements the descrambler driver (spec component
// C6): given a winning polynomial and phase offset, it XORs the
// polynomial's free-running cycle into each input file to recover the
// original bit stream.
package descramble

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BatchDrake/lfsrintruder/internal/lfsr"
)

// OutputDir is the default directory descrambled files are written
// under, per spec.md §4.6.
const OutputDir = "descrambled"

// Stream XORs the winning polynomial's free-running cycle into r's
// ASCII '0'/'1' stream, writing the result to w. Non-bit bytes are
// passed over silently (spec.md §6, "Input bit files"). baseOffset is
// reduced modulo the polynomial's cycle length before use, independent
// of any reduction already applied to the phase stored on a candidate
// (spec.md §9: both are consistent).
func Stream(desc *lfsr.Descriptor, baseOffset uint64, r io.Reader, w io.Writer) error {
	cycleLen := desc.CycleLen()
	if cycleLen == 0 {
		return fmt.Errorf("descramble: polynomial %s has zero cycle length", desc.PolynomialString())
	}

	seq, err := desc.Generate(int(cycleLen))
	if err != nil {
		return fmt.Errorf("descramble: generating cycle for %s: %w", desc.PolynomialString(), err)
	}

	p := baseOffset % cycleLen

	buf := make([]byte, 32*1024)
	out := make([]byte, 0, len(buf))
	for {
		n, readErr := r.Read(buf)
		out = out[:0]
		for i := 0; i < n; i++ {
			c := buf[i]
			if c != '0' && c != '1' {
				continue
			}
			bit := c - '0'
			result := bit ^ seq[p]
			p++
			if p == cycleLen {
				p = 0
			}
			out = append(out, '0'+result)
		}
		if len(out) > 0 {
			if _, err := w.Write(out); err != nil {
				return fmt.Errorf("descramble: writing output: %w", err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("descramble: reading input: %w", readErr)
		}
	}
}

// Result reports the outcome of descrambling one input file.
type Result struct {
	Index int
	Input string
	Output string
	Err    error
}

// Files descrambles every input path against the winning polynomial and
// offset, writing output[i] for input[i] to
// "<outputDir>/descrambled-<i+1:06d>.log" (1-based index, spec.md §4.6).
// A per-file I/O failure is reported in that file's Result and does not
// prevent the remaining files from being processed (spec.md §7).
func Files(desc *lfsr.Descriptor, baseOffset uint64, outputDir string, inputs []string) ([]Result, error) {
	if outputDir == "" {
		outputDir = OutputDir
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("descramble: creating output directory %s: %w", outputDir, err)
	}

	results := make([]Result, len(inputs))
	for i, path := range inputs {
		index := i + 1
		outPath := filepath.Join(outputDir, fmt.Sprintf("descrambled-%06d.log", index))
		results[i] = Result{Index: index, Input: path, Output: outPath}

		in, err := os.Open(path)
		if err != nil {
			results[i].Err = fmt.Errorf("opening %s: %w", path, err)
			continue
		}

		out, err := os.Create(outPath)
		if err != nil {
			in.Close()
			results[i].Err = fmt.Errorf("creating %s: %w", outPath, err)
			continue
		}

		err = Stream(desc, baseOffset, in, out)
		in.Close()
		out.Close()
		if err != nil {
			results[i].Err = err
		}
	}

	return results, nil
}
