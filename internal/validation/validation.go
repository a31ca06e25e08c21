// Package validation provides CUE-based validation for platform registries
package validation

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// registryKey is the top-level key holding the platform mapping
const registryKey = "PLATFORMS"

const schema = `
#Scalar: string | number | bool

#Platform: {
	image:         #Scalar
	instance_type: #Scalar
	username:      #Scalar
	shell_type?:   #Scalar | null
	...
}
`

// Validator checks decoded registry documents against the platform schema
type Validator struct {
	ctx      *cue.Context
	platform cue.Value
}

// New creates a new validator instance
func New() (*Validator, error) {
	ctx := cuecontext.New()

	compiled := ctx.CompileString(schema, cue.Filename("platform.cue"))
	if compiled.Err() != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", compiled.Err())
	}

	platform := compiled.LookupPath(cue.ParsePath("#Platform"))
	if !platform.Exists() {
		return nil, fmt.Errorf("platform schema not found")
	}

	return &Validator{ctx: ctx, platform: platform}, nil
}

// ValidateDocument checks that the document carries a PLATFORMS mapping.
// Entries are left alone; see ValidatePlatform.
func (v *Validator) ValidateDocument(doc map[string]interface{}) error {
	platforms, ok := doc[registryKey]
	if !ok {
		return fmt.Errorf("missing top-level %s key", registryKey)
	}

	switch platforms.(type) {
	case map[string]interface{}, map[interface{}]interface{}:
		return nil
	case nil:
		return fmt.Errorf("%s must be a mapping, got null", registryKey)
	case []interface{}, []map[string]interface{}:
		return fmt.Errorf("%s must be a mapping, got list", registryKey)
	default:
		return fmt.Errorf("%s must be a mapping, got %T", registryKey, platforms)
	}
}

// ValidatePlatform checks a single decoded PLATFORMS entry against the
// platform schema. Entries that are not being resolved are never inspected.
func (v *Validator) ValidatePlatform(name string, entry interface{}) error {
	value := v.ctx.Encode(stringKeys(entry))
	if value.Err() != nil {
		return fmt.Errorf("failed to encode platform %q: %w", name, value.Err())
	}

	unified := v.platform.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// stringKeys converts the map[interface{}]interface{} values yaml.v3 produces
// for mappings with non-string keys (2019:, 1:) into string-keyed maps, which
// is the only map shape CUE can encode.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = stringKeys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}
