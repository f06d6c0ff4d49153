package types

// Dependency groups in the order they are processed and reported.
var DependencyGroupNames = []string{
	"dependencies",
	"devDependencies",
	"optionalDependencies",
	"peerDependencies",
}

type ManifestEntry struct {
	Name     string
	Declared string
}

type DependencyGroup struct {
	Name    string
	Entries []ManifestEntry
}

// ManifestField is one top-level member of the manifest document, kept in
// file order so the document can be written back unchanged apart from the
// dependency groups.
type ManifestField struct {
	Key string
	Raw []byte
}

type Manifest struct {
	Path            string
	Groups          []DependencyGroup
	Fields          []ManifestField
	Indent          string
	TrailingNewline bool
}

func (m *Manifest) Group(name string) *DependencyGroup {
	for i := range m.Groups {
		if m.Groups[i].Name == name {
			return &m.Groups[i]
		}
	}
	return nil
}

func (m Manifest) LongestName() int {
	longest := 0
	for _, group := range m.Groups {
		for _, entry := range group.Entries {
			if len(entry.Name) > longest {
				longest = len(entry.Name)
			}
		}
	}
	return longest
}
