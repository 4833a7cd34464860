package routing

import (
	"fmt"
	"strings"
)

// ServiceDefinition is the configured form of one whitelisted service
type ServiceDefinition struct {
	Name        string   `yaml:"name" json:"name" validate:"required,service_name"`
	BaseURL     string   `yaml:"baseUrl" json:"baseUrl" validate:"required,url"`
	Endpoints   []string `yaml:"endpoints" json:"endpoints" validate:"dive,required"`
	Enabled     *bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty"`
}

// Document is a complete route configuration as read from a route source
type Document struct {
	WhitelistEnabled *bool               `yaml:"whitelistEnabled,omitempty" json:"whitelistEnabled,omitempty"`
	Services         []ServiceDefinition `yaml:"services" json:"services" validate:"dive"`
}

// Enforced reports whether whitelist enforcement is on; it defaults to true
func (d Document) Enforced() bool {
	return d.WhitelistEnabled == nil || *d.WhitelistEnabled
}

// RouteEntry is the immutable whitelist entry of one service
type RouteEntry struct {
	serviceName string
	baseURL     string
	patterns    []*CompiledPattern
	enabled     bool
	description string
	version     string
}

// ServiceName returns the name the entry is registered under
func (e *RouteEntry) ServiceName() string { return e.serviceName }

// BaseURL returns the upstream base URL
func (e *RouteEntry) BaseURL() string { return e.baseURL }

// Enabled returns the configured enabled flag
func (e *RouteEntry) Enabled() bool { return e.enabled }

// Description returns the free-form description
func (e *RouteEntry) Description() string { return e.description }

// Version returns the configured service version
func (e *RouteEntry) Version() string { return e.version }

// EndpointPatterns returns a copy of the pattern sources in configured order
func (e *RouteEntry) EndpointPatterns() []string {
	out := make([]string, len(e.patterns))
	for i, p := range e.patterns {
		out[i] = p.Source()
	}
	return out
}

// Allows reports whether path matches any endpoint pattern. An entry without
// patterns allows nothing.
func (e *RouteEntry) Allows(path string) bool {
	for _, p := range e.patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// Target joins the base URL and path without normalisation
func (e *RouteEntry) Target(path string) string {
	return e.baseURL + path
}

// Table is an immutable generation of the route whitelist
type Table struct {
	generation       uint64
	whitelistEnabled bool
	entries          map[string]*RouteEntry
	order            []string
}

// NewTable validates the document and compiles every endpoint pattern.
// Patterns are compiled through compiler so identical text is shared across
// entries and generations.
func NewTable(generation uint64, doc Document, compiler *PatternCompiler) (*Table, error) {
	if compiler == nil {
		compiler = NewPatternCompiler()
	}

	t := &Table{
		generation:       generation,
		whitelistEnabled: doc.Enforced(),
		entries:          make(map[string]*RouteEntry, len(doc.Services)),
		order:            make([]string, 0, len(doc.Services)),
	}

	for i, def := range doc.Services {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: services[%d] has no name", ErrInvalidDefinition, i)
		}
		if strings.TrimSpace(def.BaseURL) == "" {
			return nil, fmt.Errorf("%w: service %q has no baseUrl", ErrInvalidDefinition, name)
		}
		if _, exists := t.entries[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateService, name)
		}

		entry := &RouteEntry{
			serviceName: name,
			baseURL:     def.BaseURL,
			patterns:    make([]*CompiledPattern, 0, len(def.Endpoints)),
			enabled:     def.Enabled == nil || *def.Enabled,
			description: def.Description,
			version:     def.Version,
		}
		for _, src := range def.Endpoints {
			cp, err := compiler.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", name, err)
			}
			entry.patterns = append(entry.patterns, cp)
		}

		t.entries[name] = entry
		t.order = append(t.order, name)
	}

	return t, nil
}

// Generation returns the table's reload generation
func (t *Table) Generation() uint64 { return t.generation }

// WhitelistEnabled reports whether Authorize enforces patterns
func (t *Table) WhitelistEnabled() bool { return t.whitelistEnabled }

// Len returns the number of entries
func (t *Table) Len() int { return len(t.entries) }

// Entry looks up a service by exact name
func (t *Table) Entry(service string) (*RouteEntry, bool) {
	e, ok := t.entries[service]
	return e, ok
}

// Entries returns entries in configured order
func (t *Table) Entries() []*RouteEntry {
	out := make([]*RouteEntry, len(t.order))
	for i, name := range t.order {
		out[i] = t.entries[name]
	}
	return out
}

// ServiceNames returns service names in configured order
func (t *Table) ServiceNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
