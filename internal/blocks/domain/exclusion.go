package domain

// ExclusionSet is the administrator's list of block types to hide. Order has
// no meaning and duplicates are tolerated; the list is always replaced whole.
type ExclusionSet []BlockIdentifier

// Sanitize coerces a candidate exclusion list. Any value that is not a
// sequence becomes the empty set; string elements of a sequence are kept
// as-is and other elements are dropped. It never panics and never returns nil.
func Sanitize(candidate any) ExclusionSet {
	ids, ok := asIdentifiers(candidate)
	if !ok {
		return ExclusionSet{}
	}
	return ExclusionSet(ids)
}

// IsSequence reports whether Sanitize would keep candidate rather than
// replacing it with the empty set.
func IsSequence(candidate any) bool {
	_, ok := asIdentifiers(candidate)
	return ok
}

// Index returns a membership map for the set.
func (e ExclusionSet) Index() map[BlockIdentifier]struct{} {
	idx := make(map[BlockIdentifier]struct{}, len(e))
	for _, id := range e {
		idx[id] = struct{}{}
	}
	return idx
}

// With returns the union of e and fixed, keeping e's order and appending
// fixed members not already present. Neither input is modified.
func (e ExclusionSet) With(fixed ExclusionSet) ExclusionSet {
	out := make(ExclusionSet, 0, len(e)+len(fixed))
	out = append(out, e...)
	seen := e.Index()
	for _, id := range fixed {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Without returns e with every member of drop removed.
func (e ExclusionSet) Without(drop ExclusionSet) ExclusionSet {
	idx := drop.Index()
	out := make(ExclusionSet, 0, len(e))
	for _, id := range e {
		if _, ok := idx[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
