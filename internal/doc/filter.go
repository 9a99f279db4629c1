package doc

import (
	"time"

	"github.com/harpproto/harp/internal/identity"
)

// Filter selects sections from a document. Every set predicate must match
// (predicates are ANDed); zero values leave a predicate unset.
type Filter struct {
	// Types restricts to the given section types.
	Types []SectionType

	// Author requires an exact metadata author match.
	Author identity.EntityID

	// After keeps sections whose metadata timestamp is strictly after it.
	After time.Time

	// Before keeps sections whose metadata timestamp is strictly before it.
	Before time.Time

	// Tags keeps sections sharing at least one tag.
	Tags []string

	// Limit caps the number of returned sections when positive.
	Limit int
}

// FilterSections applies the filter, preserving document order. A section
// lacking a timestamp or tags never matches a time- or tag-based predicate;
// that is a non-match, not an error.
func FilterSections(d *Document, f Filter) []Section {
	var out []Section
	for _, sec := range d.Sections {
		if !matches(&sec, &f) {
			continue
		}
		out = append(out, sec)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func matches(sec *Section, f *Filter) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if sec.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Author != "" {
		if sec.Meta == nil || sec.Meta.Author != f.Author {
			return false
		}
	}

	if !f.After.IsZero() || !f.Before.IsZero() {
		ts, ok := sectionTime(sec)
		if !ok {
			return false
		}
		if !f.After.IsZero() && !ts.After(f.After) {
			return false
		}
		if !f.Before.IsZero() && !ts.Before(f.Before) {
			return false
		}
	}

	if len(f.Tags) > 0 {
		if sec.Meta == nil || len(sec.Meta.Tags) == 0 {
			return false
		}
		found := false
		for _, want := range f.Tags {
			for _, have := range sec.Meta.Tags {
				if want == have {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// sectionTime parses the section's metadata timestamp. Unparseable or
// missing timestamps report ok=false.
func sectionTime(sec *Section) (time.Time, bool) {
	if sec.Meta == nil || sec.Meta.Timestamp == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, sec.Meta.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
