package domain

// BlockType describes a registered block type. Only Name takes part in
// filtering; the rest is display metadata for the settings page.
type BlockType struct {
	Name     BlockIdentifier
	Title    string
	Category string
	Source   string // manifest path, or "runtime" for programmatic registrations
}

// Label returns the title when present, otherwise the identifier.
func (b BlockType) Label() string {
	if b.Title != "" {
		return b.Title
	}
	return string(b.Name)
}
