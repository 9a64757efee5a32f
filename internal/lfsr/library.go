package lfsr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Library is an ordered, immutable-after-load collection of Descriptors
// read from a polynomial database file. Order of file iteration is
// preserved and is the search order the correlator walks.
type Library struct {
	descriptors []*Descriptor
}

// Len returns the number of descriptors in the library.
func (l *Library) Len() int {
	return len(l.descriptors)
}

// Descriptors returns the library's descriptors in file order. Callers
// must treat the slice as read-only: descriptors are borrowed by
// candidates and hit records, never copied or owned elsewhere.
func (l *Library) Descriptors() []*Descriptor {
	return l.descriptors
}

// LoadLibrary parses a polynomial database file. Grammar:
//
//   - lines beginning with '#' are comments and never affect the
//     primitive flag;
//   - blank (whitespace-only) lines reset the primitive flag to true;
//   - a line containing the substring "non-primitive" clears the
//     primitive flag for subsequent non-blank, non-comment lines;
//   - any other line, while primitive is true, is a CSV list of unsigned
//     decimal tap exponents describing one generator polynomial.
func LoadLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lfsr: cannot open polynomial database %s: %w", path, err)
	}
	defer f.Close()

	return parseLibrary(f)
}

func parseLibrary(r io.Reader) (*Library, error) {
	lib := &Library{}
	primitive := true

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			primitive = true
			continue
		case strings.HasPrefix(trimmed, "#"):
			continue
		case strings.Contains(trimmed, "non-primitive"):
			primitive = false
			continue
		case !primitive:
			continue
		}

		taps, err := parseTapCSV(trimmed)
		if err != nil {
			return nil, fmt.Errorf("lfsr: line %d: %w", lineNo, err)
		}

		desc, err := NewDescriptor(taps)
		if err != nil {
			return nil, fmt.Errorf("lfsr: line %d: %w", lineNo, err)
		}

		lib.descriptors = append(lib.descriptors, desc)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lfsr: reading polynomial database: %w", err)
	}

	return lib, nil
}

func parseTapCSV(line string) ([]int, error) {
	fields := strings.Split(line, ",")
	taps := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, fmt.Errorf("empty tap field in %q", line)
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed tap value %q: %w", f, err)
		}
		taps = append(taps, int(v))
	}
	return taps, nil
}
