// Package feature provides the genomic feature model shared by the
// annotation reader, the redundancy filter and the statistics engine.
package feature

import "strings"

// Kind identifies the annotated feature types this tool cares about.
type Kind string

const (
	KindGene        Kind = "gene"
	KindCDS         Kind = "CDS"
	KindPolypeptide Kind = "polypeptide"
)

// Tags is a multi-valued attribute bag keyed by tag name.
// Values keep the order they appeared in the annotation file.
type Tags map[string][]string

// Has reports whether a tag is present, regardless of value.
func (t Tags) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// First returns the first value of a tag with surrounding quote
// characters stripped. The second return is false when the tag is
// absent or has no values.
func (t Tags) First(name string) (string, bool) {
	vals, ok := t[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.Trim(vals[0], `"`), true
}

// Feature is one annotated genomic element. Coordinates are 1-based and
// inclusive with Start <= End; Strand is +1 or -1. A Feature is
// immutable once parsed.
type Feature struct {
	SeqID  string
	Kind   Kind
	Start  int64
	End    int64
	Strand int8
	Tags   Tags
}

// Length returns the untrimmed feature length in bases.
func (f *Feature) Length() int64 {
	return f.End - f.Start + 1
}
