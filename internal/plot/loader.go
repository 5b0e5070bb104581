// Package plot loads per-base transposon insertion counts from plot
// files into dense in-memory profiles.
package plot

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Profile is a dense sequence of combined insertion counts, one per
// genomic position. Addressing is 1-based: position 1 is slot 0.
type Profile []int64

// At returns the count at a 1-based position.
func (p Profile) At(pos int64) int64 {
	return p[pos-1]
}

// Load reads one plot file into a fresh profile. Each line carries the
// forward- and reverse-strand counts for the next sequential position;
// the combined count is their sum.
func Load(path string) (Profile, error) {
	return MergeInto(nil, path)
}

// MergeInto adds a plot file elementwise into an existing profile,
// growing it when the file is longer. Line order is position order.
func MergeInto(existing Profile, path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plot file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	pos := 0
	for scanner.Scan() {
		pos++

		count, err := parseCounts(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("plot line %d: %w", pos, err)
		}

		if pos <= len(existing) {
			existing[pos-1] += count
		} else {
			existing = append(existing, count)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan plot file: %w", err)
	}

	return existing, nil
}

// parseCounts parses one plot line: two whitespace-separated
// non-negative integers, returned summed.
func parseCounts(line string) (int64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, fmt.Errorf("expected 2 counts, got %d", len(fields))
	}

	var total int64
	for _, field := range fields {
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse count: %w", err)
		}
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		total += n
	}
	return total, nil
}
