package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnseq/insertstats/internal/feature"
	"github.com/tnseq/insertstats/internal/plot"
)

func uniformProfile(n int, v int64) plot.Profile {
	p := make(plot.Profile, n)
	for i := range p {
		p[i] = v
	}
	return p
}

func cdsFeature(start, end int64, strand int8) *feature.Feature {
	return &feature.Feature{
		SeqID:  "chr1",
		Kind:   feature.KindCDS,
		Start:  start,
		End:    end,
		Strand: strand,
		Tags:   feature.Tags{"locus_tag": {"abc1"}},
	}
}

func TestNewEngine_TrimValidation(t *testing.T) {
	for _, bad := range [][2]float64{{-0.1, 0}, {1, 0}, {0, -0.1}, {0, 1.5}} {
		_, err := NewEngine(bad[0], bad[1])
		assert.Error(t, err, "trims %v", bad)
	}

	_, err := NewEngine(0, 0)
	assert.NoError(t, err)
	_, err = NewEngine(0.99, 0.99)
	assert.NoError(t, err)
}

func TestCompute_UniformCoverage(t *testing.T) {
	e, err := NewEngine(0, 0)
	require.NoError(t, err)

	row, err := e.Compute(cdsFeature(100, 400, 1), uniformProfile(500, 1))
	require.NoError(t, err)

	assert.Equal(t, "abc1", row.ID)
	assert.Equal(t, "abc1", row.Name)
	assert.False(t, row.RNA)
	assert.Equal(t, int64(100), row.Start)
	assert.Equal(t, int64(400), row.End)
	assert.Equal(t, int8(1), row.Strand)
	assert.Equal(t, int64(301), row.ReadCount)
	assert.Equal(t, 1.0, row.InsertionIndex)
	assert.Equal(t, int64(301), row.Length)
	assert.Equal(t, int64(301), row.InsertionCount)
	assert.Equal(t, "", row.Label)
}

func TestCompute_SparseProfile(t *testing.T) {
	e, err := NewEngine(0, 0)
	require.NoError(t, err)

	p := make(plot.Profile, 100)
	p[9] = 5  // position 10
	p[19] = 3 // position 20
	p[50] = 1 // position 51, outside the feature

	row, err := e.Compute(cdsFeature(1, 50, 1), p)
	require.NoError(t, err)

	assert.Equal(t, int64(8), row.ReadCount)
	assert.Equal(t, int64(2), row.InsertionCount)
	assert.InDelta(t, 2.0/50.0, row.InsertionIndex, 1e-12)
}

func TestCompute_TrimForwardStrand(t *testing.T) {
	e, err := NewEngine(0.1, 0.2)
	require.NoError(t, err)

	// length 100: cut 10 from 5' (low coords), 20 from 3' (high coords)
	row, err := e.Compute(cdsFeature(1, 100, 1), uniformProfile(200, 1))
	require.NoError(t, err)

	// trimmed interval [11, 80], 70 positions
	assert.Equal(t, int64(70), row.ReadCount)
	assert.Equal(t, int64(70), row.InsertionCount)
	assert.Equal(t, 1.0, row.InsertionIndex)
	assert.Equal(t, int64(100), row.Length, "reported length is untrimmed")
}

func TestCompute_TrimStrandSymmetry(t *testing.T) {
	// A forward feature with trim5=0.1, trim3=0.2 covers the same
	// interval as a reverse feature with the trims swapped.
	fwd, err := NewEngine(0.1, 0.2)
	require.NoError(t, err)
	rev, err := NewEngine(0.2, 0.1)
	require.NoError(t, err)

	p := make(plot.Profile, 200)
	p[10] = 1 // position 11: first base kept on the forward trim
	p[79] = 2 // position 80: last base kept
	p[80] = 4 // position 81: trimmed away

	fwdRow, err := fwd.Compute(cdsFeature(1, 100, 1), p)
	require.NoError(t, err)
	revRow, err := rev.Compute(cdsFeature(1, 100, -1), p)
	require.NoError(t, err)

	assert.Equal(t, fwdRow.ReadCount, revRow.ReadCount)
	assert.Equal(t, fwdRow.InsertionCount, revRow.InsertionCount)
	assert.Equal(t, fwdRow.InsertionIndex, revRow.InsertionIndex)
	assert.Equal(t, int64(3), fwdRow.ReadCount)
}

func TestCompute_EmptyInterval(t *testing.T) {
	e, err := NewEngine(0.9, 0.9)
	require.NoError(t, err)

	_, err = e.Compute(cdsFeature(1, 100, 1), uniformProfile(200, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInterval)
}

func TestCompute_StartBeforeProfile(t *testing.T) {
	e, err := NewEngine(0, 0)
	require.NoError(t, err)

	// The parser rejects zero coordinates, but a feature built
	// elsewhere must still come back as a data error, not a panic.
	var row *Row
	require.NotPanics(t, func() {
		row, err = e.Compute(cdsFeature(0, 10, 1), uniformProfile(100, 1))
	})
	require.Error(t, err)
	assert.Nil(t, row)
	assert.ErrorIs(t, err, ErrProfileTooShort)
}

func TestCompute_ProfileTooShort(t *testing.T) {
	e, err := NewEngine(0, 0)
	require.NoError(t, err)

	_, err = e.Compute(cdsFeature(100, 400, 1), uniformProfile(300, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileTooShort)
}

func TestCompute_IndexWithinUnitInterval(t *testing.T) {
	e, err := NewEngine(0.05, 0.1)
	require.NoError(t, err)

	p := make(plot.Profile, 1000)
	for i := 0; i < len(p); i += 7 {
		p[i] = int64(i % 5)
	}

	for _, strand := range []int8{1, -1} {
		row, err := e.Compute(cdsFeature(13, 977, strand), p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, row.InsertionIndex, 0.0)
		assert.LessOrEqual(t, row.InsertionIndex, 1.0)
	}
}
