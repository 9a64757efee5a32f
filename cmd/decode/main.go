// Command decode streams rate-1/n convolutionally-encoded codewords from
// stdin through a sliding-window Viterbi decoder and writes the
// recovered bits to stdout.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BatchDrake/lfsrintruder/internal/viterbi"
)

// windowFactor mirrors viterbi's internal W=5 window depth (trellis_length
// = K*windowFactor) so the driver can compute the per-window failure
// threshold len/(W-1) described in spec.md §6.
const windowFactor = 5

func parseArgs(args []string) (k int, polys []uint32, err error) {
	if len(args) < 2 {
		return 0, nil, fmt.Errorf("usage: decode K poly1 [poly2 ...]")
	}

	kVal, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid constraint length %q: %w", args[0], err)
	}

	polys = make([]uint32, 0, len(args)-1)
	for _, a := range args[1:] {
		p, err := strconv.ParseUint(a, 0, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid polynomial %q: %w", a, err)
		}
		polys = append(polys, uint32(p))
	}

	return kVal, polys, nil
}

func readCodeword(r *bufio.Reader, n int) (uint32, error) {
	var codeword uint32
	for i := 0; i < n; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if c != '0' && c != '1' {
			return 0, fmt.Errorf("decode: byte %d of codeword is %q, want '0' or '1'", i, c)
		}
		codeword = (codeword << 1) | uint32(c-'0')
	}
	return codeword, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	k, polys, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 2
	}

	trellisLength := k * windowFactor
	emitLen := trellisLength - 1
	failThreshold := uint32(emitLen / (windowFactor - 1))

	var totalWindows, failedWindows int

	d, err := viterbi.New(k, len(polys), polys, func(bits []byte, errors uint32) bool {
		totalWindows++
		if errors >= failThreshold {
			failedWindows++
		}

		out := make([]byte, len(bits))
		for i, b := range bits {
			out[i] = '0' + b
		}
		stdout.Write(out)

		return true
	})
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 2
	}

	r := bufio.NewReader(stdin)
	for {
		codeword, err := readCodeword(r, len(polys))
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(stdout, err)
				return 2
			}
			break
		}
		if err := d.Feed(codeword); err != nil {
			break
		}
	}

	if totalWindows > 0 && totalWindows == failedWindows {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}
