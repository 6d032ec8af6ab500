package oids

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// entry is the YAML shape for one registry row, used by DumpYAML.
type entry struct {
	Name string `yaml:"name"`
	OID  string `yaml:"oid"`
}

// DumpYAML renders the full registry as YAML, sorted by name, for the
// `derinspect --dump-oids` operator command.
func DumpYAML() ([]byte, error) {
	names := Names()
	sort.Strings(names)

	entries := make([]entry, 0, len(names))
	for _, name := range names {
		oid := byName[name]
		entries = append(entries, entry{Name: name, OID: oid.String()})
	}
	return yaml.Marshal(entries)
}
