package domain

import (
	"encoding/json"
	"fmt"
)

// RequestedKind distinguishes the two shapes a filter request can take.
type RequestedKind uint8

const (
	// RequestAllowAll means no narrowing has happened yet; the base is the full registry.
	RequestAllowAll RequestedKind = iota
	// RequestSpecific carries an explicit, non-empty list of block types.
	RequestSpecific
)

// String returns a stable string representation of the kind.
func (k RequestedKind) String() string {
	switch k {
	case RequestAllowAll:
		return "allow-all"
	case RequestSpecific:
		return "specific"
	default:
		return fmt.Sprintf("RequestedKind(%d)", k)
	}
}

// Requested is the allowed-types input of a filter call: either AllowAll or
// a specific non-empty list.
type Requested struct {
	kind   RequestedKind
	blocks []BlockIdentifier
}

// AllowAll returns the allow-everything request.
func AllowAll() Requested {
	return Requested{kind: RequestAllowAll}
}

// Specific returns a request narrowed to blocks. An empty list is not a
// valid narrowing and yields AllowAll.
func Specific(blocks ...BlockIdentifier) Requested {
	if len(blocks) == 0 {
		return AllowAll()
	}
	return Requested{kind: RequestSpecific, blocks: append([]BlockIdentifier{}, blocks...)}
}

// ParseRequested translates the host convention into a Requested. Booleans,
// nil, non-sequences and empty sequences all mean AllowAll. Non-string
// elements are dropped first, so a list like [1, 2] is also AllowAll.
func ParseRequested(v any) Requested {
	if r, ok := v.(Requested); ok {
		return r
	}
	ids, ok := asIdentifiers(v)
	if !ok {
		return AllowAll()
	}
	return Specific(ids...)
}

// Kind returns the request kind.
func (r Requested) Kind() RequestedKind { return r.kind }

// IsAllowAll reports whether the request carries no narrowing.
func (r Requested) IsAllowAll() bool { return r.kind == RequestAllowAll }

// UnmarshalJSON accepts any JSON value and never fails on well-formed input.
func (r *Requested) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ParseRequested(raw)
	return nil
}
