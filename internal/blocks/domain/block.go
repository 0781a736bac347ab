package domain

import "reflect"

// BlockIdentifier names a block type, e.g. "core/paragraph" or "acf/card".
// The value is opaque: no namespace or name parts are interpreted.
type BlockIdentifier string

// String returns the identifier as a plain string.
func (b BlockIdentifier) String() string { return string(b) }

// Identifiers converts plain strings into BlockIdentifiers.
func Identifiers(names ...string) []BlockIdentifier {
	out := make([]BlockIdentifier, len(names))
	for i, n := range names {
		out[i] = BlockIdentifier(n)
	}
	return out
}

// Strings converts BlockIdentifiers back into plain strings.
func Strings(ids []BlockIdentifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// RegistryLookup enumerates every block type the host currently knows about,
// in registration order. It is queried on every call and never cached.
type RegistryLookup func() []BlockIdentifier

// asIdentifiers reports whether v is a sequence (slice or array) and, if so,
// returns its string elements as identifiers. Elements that are not strings
// are dropped. Maps, scalars and nil are not sequences.
func asIdentifiers(v any) ([]BlockIdentifier, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []BlockIdentifier:
		return append([]BlockIdentifier{}, s...), true
	case ExclusionSet:
		return append([]BlockIdentifier{}, s...), true
	case []string:
		return Identifiers(s...), true
	case []any:
		out := make([]BlockIdentifier, 0, len(s))
		for _, elem := range s {
			if id, ok := elementIdentifier(elem); ok {
				out = append(out, id)
			}
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]BlockIdentifier, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if id, ok := elementIdentifier(rv.Index(i).Interface()); ok {
			out = append(out, id)
		}
	}
	return out, true
}

func elementIdentifier(elem any) (BlockIdentifier, bool) {
	switch e := elem.(type) {
	case string:
		return BlockIdentifier(e), true
	case BlockIdentifier:
		return e, true
	}
	rv := reflect.ValueOf(elem)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return BlockIdentifier(rv.String()), true
	}
	return "", false
}
