// Command correlate identifies which scrambler polynomial (and phase)
// produced a captured bit stream, by FFT cross-correlation against a
// library of candidate polynomials, then descrambles every input file
// against the winner.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/BatchDrake/lfsrintruder/internal/correlator"
	"github.com/BatchDrake/lfsrintruder/internal/descramble"
	"github.com/BatchDrake/lfsrintruder/internal/diagnostics"
	"github.com/BatchDrake/lfsrintruder/internal/lfsr"
	"github.com/BatchDrake/lfsrintruder/internal/logging"
)

type config struct {
	polyDB         string
	dumpCandidates bool
	candidatesDir  string
	outputDir      string
	frameDumpDir   string
	logLevel       string
}

func parseFlags(args []string) (config, []string, error) {
	fs := pflag.NewFlagSet("correlate", pflag.ContinueOnError)

	cfg := config{}
	fs.StringVar(&cfg.polyDB, "poly-db", "all-irredpoly.txt", "path to the candidate polynomial database")
	fs.BoolVar(&cfg.dumpCandidates, "dump-candidates", true, "write a diagnostic unscrambled-candidate dump on every score improvement")
	fs.StringVar(&cfg.candidatesDir, "candidates-dir", "candidates", "directory for candidate diagnostic dumps")
	fs.StringVar(&cfg.outputDir, "output-dir", descramble.OutputDir, "directory for descrambled output files")
	fs.StringVar(&cfg.frameDumpDir, "frame-dump-dir", ".", "directory for verbatim per-file frame rewrites")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return config{}, nil, err
	}

	return cfg, fs.Args(), nil
}

func readBitFrame(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	frame := make([]byte, 0, len(raw))
	for _, c := range raw {
		if c == '0' || c == '1' {
			frame = append(frame, c-'0')
		}
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("%s: no bit data found", path)
	}
	return frame, nil
}

func writeFrameDump(dir string, index int, frame []byte) error {
	path := filepath.Join(dir, fmt.Sprintf("input-%d.log", index))
	out := make([]byte, len(frame))
	for i, b := range frame {
		out[i] = '0' + b
	}
	return os.WriteFile(path, out, 0o644)
}

func run(args []string, stdout io.Writer) int {
	cfg, inputs, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 2
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stdout, "usage: correlate [flags] file1.log [file2.log ...]")
		return 2
	}

	logger, err := logging.New(os.Stderr, cfg.logLevel)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	library, err := lfsr.LoadLibrary(cfg.polyDB)
	if err != nil {
		logger.Error("failed to load polynomial database", "path", cfg.polyDB, "err", err)
		return 1
	}
	logger.Info("loaded polynomial database", "path", cfg.polyDB, "count", library.Len())

	agg := correlator.NewAggregator()

	for i, path := range inputs {
		index := i + 1

		frame, err := readBitFrame(path)
		if err != nil {
			logger.Warn("skipping unreadable or empty input file", "path", path, "err", err)
			continue
		}

		if err := writeFrameDump(cfg.frameDumpDir, index, frame); err != nil {
			logger.Warn("failed to write verbatim frame rewrite", "path", path, "err", err)
		}

		corr, err := correlator.New(frame)
		if err != nil {
			logger.Error("failed to build correlator", "path", path, "err", err)
			return 1
		}

		onImprovement := func(cand correlator.Candidate, seq []byte) error {
			logger.Debug("candidate improved", "polynomial", cand.Desc.PolynomialString(), "offset", cand.Offset, "score", cand.Score)
			if cfg.dumpCandidates {
				stats, err := diagnostics.Dump(cfg.candidatesDir, cand.Offset, cand.Desc.PolynomialString(), seq, frame)
				if err != nil {
					logger.Warn("failed to write candidate dump", "path", path, "err", err)
					return nil
				}
				logger.Debug("candidate dump written",
					"hamming_weight", stats.HammingWeight,
					"longest_run", stats.LongestRun,
					"flip_count", stats.FlipCount)
			}
			return nil
		}

		candidates, err := corr.Run(library.Descriptors(), onImprovement)
		if err != nil {
			logger.Error("correlation run failed", "path", path, "err", err)
			return 1
		}

		for _, cand := range candidates {
			agg.RecordCandidate(cand)
		}
	}

	winner, ok := agg.Winner()
	if !ok {
		fmt.Fprintln(stdout, "no candidate polynomials found")
		return 1
	}

	fmt.Fprintf(stdout, "best match: %s\n", winner.Desc.PolynomialString())
	fmt.Fprintf(stdout, "best offset: %d\n", winner.BestOffset())
	for _, oh := range winner.Offsets {
		fmt.Fprintf(stdout, "  offset %d: %d hit(s)\n", oh.Offset, oh.Count)
	}

	results, err := descramble.Files(winner.Desc, winner.BestOffset(), cfg.outputDir, inputs)
	if err != nil {
		logger.Error("descrambling failed", "err", err)
		return 1
	}

	for _, r := range results {
		if r.Err != nil {
			logger.Warn("failed to descramble input file", "path", r.Input, "err", r.Err)
			continue
		}
		fmt.Fprintf(stdout, "descrambled %s -> %s\n", r.Input, r.Output)
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
