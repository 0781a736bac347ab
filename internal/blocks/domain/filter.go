package domain

// ComputeAllowed derives the block types the editor may insert.
//
// The base is the registry enumeration when requested is AllowAll, otherwise
// the requested list. Every member of exclusions is removed from the base;
// the remaining identifiers keep the base order with duplicates dropped.
// The result is never nil.
func ComputeAllowed(requested Requested, lookup RegistryLookup, exclusions []BlockIdentifier) []BlockIdentifier {
	var base []BlockIdentifier
	if requested.IsAllowAll() {
		if lookup != nil {
			base = lookup()
		}
	} else {
		base = requested.blocks
	}

	excluded := ExclusionSet(exclusions).Index()
	seen := make(map[BlockIdentifier]struct{}, len(base))
	allowed := make([]BlockIdentifier, 0, len(base))
	for _, id := range base {
		if _, ok := excluded[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		allowed = append(allowed, id)
	}
	return allowed
}
