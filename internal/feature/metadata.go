package feature

import (
	"fmt"
	"regexp"
)

var nonWord = regexp.MustCompile(`\W`)

// Metadata is the descriptive part of a statistics row, derived purely
// from a feature's tags.
type Metadata struct {
	// ID is the stable identifier: the first present of the locus_tag,
	// ID and systematic_id tags, else a coordinate-synthesized one.
	ID string
	// Name is the display name from the gene tag with non-word
	// characters removed, falling back to ID verbatim.
	Name string
	// Label is "pseudogene" for pseudogenes, else the product tag
	// value, else empty.
	Label string
	// RNA is set when the feature carries an ncRNA tag.
	RNA bool
}

// Resolve derives row metadata from a feature's tags. It is total:
// every field has a defined default when the relevant tags are absent.
func Resolve(f *Feature) Metadata {
	var m Metadata

	for _, tag := range []string{"locus_tag", "ID", "systematic_id"} {
		if v, ok := f.Tags.First(tag); ok {
			m.ID = v
			break
		}
	}
	if m.ID == "" {
		m.ID = fmt.Sprintf("%s_%d_%d_%d", f.SeqID, f.Strand, f.Start, f.End)
	}

	if v, ok := f.Tags.First("gene"); ok {
		m.Name = nonWord.ReplaceAllString(v, "")
	} else {
		m.Name = m.ID
	}

	if f.Tags.Has("pseudo") {
		m.Label = "pseudogene"
	} else if v, ok := f.Tags.First("product"); ok {
		m.Label = v
	}

	m.RNA = f.Tags.Has("ncRNA")

	return m
}
