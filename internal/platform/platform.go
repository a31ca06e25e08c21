// Package platform loads the CI platform registry and resolves named platforms
package platform

import (
	"sort"

	"github.com/pkg/errors"
)

// DefaultShellType is used when a platform does not declare shell_type
const DefaultShellType = "sh"

// ErrPlatformNotFound is returned when a requested platform is not in the registry
var ErrPlatformNotFound = errors.New("platform not found")

// Platform describes a single deployment target
type Platform struct {
	Image        string  `yaml:"image" toml:"image" json:"image"`
	InstanceType string  `yaml:"instance_type" toml:"instance_type" json:"instance_type"`
	Username     string  `yaml:"username" toml:"username" json:"username"`
	ShellType    *string `yaml:"shell_type,omitempty" toml:"shell_type,omitempty" json:"shell_type,omitempty"`
}

// Shell returns the effective shell type, falling back to DefaultShellType
func (p Platform) Shell() string {
	if p.ShellType == nil {
		return DefaultShellType
	}
	return *p.ShellType
}

// Prefix returns the variable namespace for the given platform name
func Prefix(name string) string {
	if name == "stack" {
		return "STACK"
	}
	return "NODE"
}

// Registry holds the platforms declared under the PLATFORMS key
type Registry struct {
	Platforms map[string]Platform `yaml:"PLATFORMS" toml:"PLATFORMS"`

	// raw is the untyped document, kept for schema validation
	raw map[string]interface{}
	// entries holds each PLATFORMS entry as generic data, keyed like Platforms
	entries map[string]interface{}
	path    string
}

// Lookup returns the platform registered under name
func (r *Registry) Lookup(name string) (Platform, error) {
	p, ok := r.Platforms[name]
	if !ok {
		return Platform{}, &NotFoundError{Name: name}
	}
	return p, nil
}

// Names returns the registered platform names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Platforms))
	for name := range r.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns the decoded document as generic data
func (r *Registry) Raw() map[string]interface{} {
	return r.raw
}

// Entry returns the named PLATFORMS entry as generic data
func (r *Registry) Entry(name string) (interface{}, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Path returns the file the registry was loaded from
func (r *Registry) Path() string {
	return r.path
}
