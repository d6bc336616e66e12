// spec_registry.go provides a dynamic registry for tool specifications.
//
// Each tool registers a SpecEntry via init() in its handler file. The
// registry is keyed by tool name; the protocol layer asks it for the
// specs of whatever handlers were wired up.
package tools

import (
	"sort"
	"sync"
)

// SpecEntry is the registry unit for a single tool.
type SpecEntry struct {
	Name        string          // Tool name, e.g. "patch_file"
	Constructor func() ToolSpec // Returns the spec (spec.Name == Name)
}

var (
	mu           sync.RWMutex
	specRegistry = map[string]SpecEntry{}
)

// RegisterSpec adds a SpecEntry to the global registry.
func RegisterSpec(entry SpecEntry) {
	mu.Lock()
	defer mu.Unlock()
	specRegistry[entry.Name] = entry
}

// GetEntry returns the SpecEntry for the given tool name.
func GetEntry(name string) (SpecEntry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := specRegistry[name]
	return e, ok
}

// BuildSpecs constructs ToolSpec values for the given tool names.
// Unknown names are skipped.
func BuildSpecs(names []string) []ToolSpec {
	mu.RLock()
	defer mu.RUnlock()

	specs := make([]ToolSpec, 0, len(names))
	for _, name := range names {
		if e, ok := specRegistry[name]; ok {
			specs = append(specs, e.Constructor())
		}
	}
	return specs
}

// RegisteredNames returns every registered tool name, sorted.
func RegisteredNames() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(specRegistry))
	for name := range specRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
