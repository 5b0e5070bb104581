package feature

// Interval is a coordinate-only projection of a CDS feature,
// 1-based and inclusive.
type Interval struct {
	Start int64
	End   int64
}

// Contains reports closed, inclusive containment of [start, end].
func (iv Interval) Contains(start, end int64) bool {
	return iv.Start <= start && iv.End >= end
}

// Catalog holds the CDS intervals of one annotation file and decides
// which features make it into the output. A gene that is fully
// contained in some CDS is redundant with that CDS's own row and is
// dropped; CDS and polypeptide features are always kept.
type Catalog struct {
	cds []Interval
}

// NewCatalog collects CDS intervals from one pass over the features,
// in annotation order.
func NewCatalog(feats []*Feature) *Catalog {
	c := &Catalog{}
	for _, f := range feats {
		if f.Kind == KindCDS {
			c.cds = append(c.cds, Interval{Start: f.Start, End: f.End})
		}
	}
	return c
}

// CDSCount returns the number of collected CDS intervals.
func (c *Catalog) CDSCount() int {
	return len(c.cds)
}

// Retain reports whether a feature should appear in the output.
// Only gene features are ever filtered, and only by CDS containment;
// identical coordinates count as containing. Inputs are per-chromosome
// sized, so a linear scan is fine.
func (c *Catalog) Retain(f *Feature) bool {
	if f.Kind != KindGene {
		return true
	}
	for _, iv := range c.cds {
		if iv.Contains(f.Start, f.End) {
			return false
		}
	}
	return true
}
