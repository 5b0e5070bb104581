// Package gff provides streaming GFF3 annotation parsing.
package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/tnseq/insertstats/internal/feature"
)

// Parser reads gene, CDS and polypeptide features from a GFF3 file in
// annotation order. Other feature types, comments and any trailing
// FASTA section are skipped.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	done       bool
}

// NewParser creates a parser for the given file. Plain and gzipped
// files are both supported; gzip is detected by magic bytes.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}

	p := &Parser{file: file}

	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read annotation header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek annotation file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser reading from r.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next retained-kind feature. It returns nil, nil when
// the stream is exhausted. Malformed feature lines are an error, not a
// silent skip.
func (p *Parser) Next() (*feature.Feature, error) {
	if p.done {
		return nil, nil
	}

	for {
		line, err := p.reader.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil, nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read annotation line: %w", err)
		}
		p.lineNumber++
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") || line == "##FASTA" {
			// Embedded sequence section: no more features follow.
			p.done = true
			return nil, nil
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		f, keep, err := p.parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("annotation line %d: %w", p.lineNumber, err)
		}
		if keep {
			return f, nil
		}
	}
}

// Close closes the parser and releases resources.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

func (p *Parser) parseLine(line string) (*feature.Feature, bool, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, false, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}

	kind := feature.Kind(fields[2])
	switch kind {
	case feature.KindGene, feature.KindCDS, feature.KindPolypeptide:
	default:
		return nil, false, nil
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("parse start: %w", err)
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("parse end: %w", err)
	}
	if start < 1 {
		// GFF3 coordinates are 1-based.
		return nil, false, fmt.Errorf("start %d before position 1", start)
	}
	if start > end {
		return nil, false, fmt.Errorf("start %d after end %d", start, end)
	}

	f := &feature.Feature{
		SeqID:  fields[0],
		Kind:   kind,
		Start:  start,
		End:    end,
		Strand: parseStrand(fields[6]),
		Tags:   parseAttributes(fields[8]),
	}

	return f, true, nil
}

// parseAttributes parses the GFF3 attribute column.
// Format: key=value,value;key=value;... with percent-encoding.
// A bare key with no value is recorded as present with no values.
func parseAttributes(attrStr string) feature.Tags {
	tags := make(feature.Tags)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, rawVal, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !found {
			if _, ok := tags[key]; !ok {
				tags[key] = nil
			}
			continue
		}

		for _, v := range strings.Split(rawVal, ",") {
			tags[key] = append(tags[key], unescape(v))
		}
	}

	return tags
}

func unescape(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// ReadAll parses an entire annotation file into a feature slice,
// preserving annotation order.
func ReadAll(path string) ([]*feature.Feature, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var feats []*feature.Feature
	for {
		f, err := p.Next()
		if err != nil {
			return nil, err
		}
		if f == nil {
			return feats, nil
		}
		feats = append(feats, f)
	}
}
