// Package envfile renders platform settings as shell-sourceable export files
package envfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/subosito/gotenv"

	"github.com/fastertools/platform-env/internal/platform"
)

// Fields lists the variable suffixes in the order they are written
var Fields = []string{"IMAGE", "INSTANCE_TYPE", "LABEL", "SHELL_TYPE", "USER"}

// FileName returns the env file name for a platform
func FileName(name string) string {
	return ".env-" + name
}

// Values returns the variable values keyed by field suffix
func Values(name string, p platform.Platform) map[string]string {
	return map[string]string{
		"IMAGE":         p.Image,
		"INSTANCE_TYPE": p.InstanceType,
		"LABEL":         name,
		"SHELL_TYPE":    p.Shell(),
		"USER":          p.Username,
	}
}

// Render returns the export lines for a platform
func Render(name string, p platform.Platform) []byte {
	prefix := platform.Prefix(name)
	values := Values(name, p)

	var buf bytes.Buffer
	for _, field := range Fields {
		fmt.Fprintf(&buf, "export %s_%s=%s\n", prefix, field, values[field])
	}
	return buf.Bytes()
}

// Write renders the env file for a platform into dir, replacing any existing
// file, and returns the path written.
func Write(dir, name string, p platform.Platform) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}

	data := Render(name, p)
	path := filepath.Join(dir, FileName(name))

	if err := os.WriteFile(path, data, 0644); err != nil { // #nosec G306 - env files are sourced by other CI steps
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// Parse reads export lines back into a variable map
func Parse(r io.Reader) (map[string]string, error) {
	env, err := gotenv.StrictParse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse env file")
	}
	return env, nil
}

// ReadFile parses the env file at path
func ReadFile(path string) (map[string]string, error) {
	f, err := os.Open(path) // #nosec G304 - path is an env file this tool wrote
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// checkName rejects names that would place the file outside the output directory
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid platform name for file output: %s", name)
	}
	return nil
}
