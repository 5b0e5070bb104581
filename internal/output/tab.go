// Package output provides the tab-delimited statistics writer.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/tnseq/insertstats/internal/stats"
)

// TabWriter writes statistics rows in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"locus_tag",
			"gene_name",
			"ncrna",
			"start",
			"end",
			"strand",
			"read_count",
			"ins_index",
			"gene_length",
			"ins_count",
			"fcn",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single statistics row. The gene name already has
// non-word characters stripped; the fcn label may contain spaces but
// never tabs or newlines.
func (tw *TabWriter) Write(r *stats.Row) error {
	fields := []string{
		r.ID,
		r.Name,
		formatBool(r.RNA),
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		strconv.FormatInt(int64(r.Strand), 10),
		strconv.FormatInt(r.ReadCount, 10),
		strconv.FormatFloat(r.InsertionIndex, 'g', -1, 64),
		strconv.FormatInt(r.Length, 10),
		strconv.FormatInt(r.InsertionCount, 10),
		r.Label,
	}
	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
