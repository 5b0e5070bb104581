// Package stats computes per-feature insertion statistics from a count
// profile.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/tnseq/insertstats/internal/feature"
	"github.com/tnseq/insertstats/internal/plot"
)

// Per-feature data errors. Both mean the feature cannot produce a
// meaningful row; callers decide whether to skip or abort.
var (
	ErrEmptyInterval   = errors.New("trimmed interval is empty")
	ErrProfileTooShort = errors.New("profile shorter than trimmed interval")
)

// Row is one output record: insertion statistics plus descriptive
// metadata for a single retained feature. Start, End and Length are
// the untrimmed feature coordinates; ReadCount, InsertionCount and
// InsertionIndex cover the trimmed interval only.
type Row struct {
	ID             string
	Name           string
	RNA            bool
	Start          int64
	End            int64
	Strand         int8
	ReadCount      int64
	InsertionIndex float64
	Length         int64
	InsertionCount int64
	Label          string
}

// Engine computes statistics rows with fixed trim fractions.
type Engine struct {
	trim5 float64
	trim3 float64
}

// NewEngine creates an engine. Trim fractions denote the share of
// feature length excluded from each end in transcription direction and
// must lie in [0, 1).
func NewEngine(trim5, trim3 float64) (*Engine, error) {
	if trim5 < 0 || trim5 >= 1 {
		return nil, fmt.Errorf("trim5 %g out of range [0,1)", trim5)
	}
	if trim3 < 0 || trim3 >= 1 {
		return nil, fmt.Errorf("trim3 %g out of range [0,1)", trim3)
	}
	return &Engine{trim5: trim5, trim3: trim3}, nil
}

// Compute builds the statistics row for one feature. The trim is
// strand-aware: on the reverse strand the 5' end is the high
// coordinate, so the trim fractions swap sides. Errors wrap
// ErrEmptyInterval or ErrProfileTooShort.
func (e *Engine) Compute(f *feature.Feature, profile plot.Profile) (*Row, error) {
	length := f.Length()

	cut5 := int64(math.Floor(e.trim5 * float64(length)))
	cut3 := int64(math.Floor(e.trim3 * float64(length)))

	var readStart, readEnd int64
	if f.Strand >= 0 {
		readStart = f.Start + cut5
		readEnd = f.End - cut3
	} else {
		readStart = f.Start + cut3
		readEnd = f.End - cut5
	}

	m := feature.Resolve(f)

	if readEnd < readStart {
		return nil, fmt.Errorf("%w: feature %s trimmed to [%d,%d]",
			ErrEmptyInterval, m.ID, readStart, readEnd)
	}
	if readStart < 1 || readEnd > int64(len(profile)) {
		return nil, fmt.Errorf("%w: feature %s spans [%d,%d], profile has positions [1,%d]",
			ErrProfileTooShort, m.ID, readStart, readEnd, len(profile))
	}

	var reads, insertions int64
	for pos := readStart; pos <= readEnd; pos++ {
		count := profile.At(pos)
		reads += count
		if count > 0 {
			insertions++
		}
	}

	return &Row{
		ID:             m.ID,
		Name:           m.Name,
		RNA:            m.RNA,
		Start:          f.Start,
		End:            f.End,
		Strand:         f.Strand,
		ReadCount:      reads,
		InsertionIndex: float64(insertions) / float64(readEnd-readStart+1),
		Length:         length,
		InsertionCount: insertions,
		Label:          m.Label,
	}, nil
}
