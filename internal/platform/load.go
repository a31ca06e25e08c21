package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the registry read when no path is given
const DefaultFile = ".e2e-platforms.yaml"

// Load reads a platform registry. The format is chosen by file extension;
// anything other than .toml is decoded as YAML.
func Load(path string) (*Registry, error) {
	if path == "" {
		path = DefaultFile
	}

	format := formatOf(path)

	data, err := os.ReadFile(path) // #nosec G304 - path is supplied by the operator
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: errors.Wrap(err, "failed to read registry")}
	}

	reg, err := Parse(data, format)
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	reg.path = path
	return reg, nil
}

// rawEntries decodes PLATFORMS with the same key conversion as Registry,
// so a name like 2019 maps to the same entry in both views.
type rawEntries struct {
	Platforms map[string]interface{} `yaml:"PLATFORMS" toml:"PLATFORMS"`
}

// Parse decodes registry data in the given format ("yaml" or "toml")
func Parse(data []byte, format string) (*Registry, error) {
	reg := &Registry{}
	var entries rawEntries

	unmarshal := yaml.Unmarshal
	if format == "toml" {
		unmarshal = toml.Unmarshal
	}

	for _, out := range []interface{}{reg, &reg.raw, &entries} {
		if err := unmarshal(data, out); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", strings.ToUpper(format))
		}
	}
	reg.entries = entries.Platforms

	return reg, nil
}

func formatOf(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		return "toml"
	}
	return "yaml"
}
