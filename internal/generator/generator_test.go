package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastertools/platform-env/internal/platform"
)

const registry = `PLATFORMS:
  stack:
    image: ami-1
    instance_type: t3.micro
    username: ec2-user
  centos8_amd64:
    image: ami-0b4f
    instance_type: c5.large
    username: centos
    shell_type: bash
  incomplete:
    image: ami-x
    username: nobody
`

type fixture struct {
	dir      string
	registry string
}

func setup(t *testing.T, content string) fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".e2e-platforms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return fixture{dir: dir, registry: path}
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New()
	require.NoError(t, err)
	return g
}

func assertNoEnvFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".env-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGenerateStack(t *testing.T) {
	fx := setup(t, registry)
	g := newGenerator(t)

	res, err := g.Generate(Options{Platform: "stack", PlatformsFile: fx.registry, OutputDir: fx.dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fx.dir, ".env-stack"), res.Path)
	assert.Equal(t, "STACK", res.Prefix)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "export STACK_IMAGE=ami-1\n"+
		"export STACK_INSTANCE_TYPE=t3.micro\n"+
		"export STACK_LABEL=stack\n"+
		"export STACK_SHELL_TYPE=sh\n"+
		"export STACK_USER=ec2-user\n", string(data))
}

func TestGenerateNode(t *testing.T) {
	fx := setup(t, registry)
	g := newGenerator(t)

	res, err := g.Generate(Options{Platform: "centos8_amd64", PlatformsFile: fx.registry, OutputDir: fx.dir})
	require.NoError(t, err)
	assert.Equal(t, "NODE", res.Prefix)
	assert.Equal(t, "bash", res.Platform.Shell())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export NODE_LABEL=centos8_amd64\n")
	assert.Contains(t, string(data), "export NODE_SHELL_TYPE=bash\n")
}

func TestGenerateNotFound(t *testing.T) {
	fx := setup(t, registry)
	g := newGenerator(t)

	_, err := g.Generate(Options{Platform: "debian", PlatformsFile: fx.registry, OutputDir: fx.dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, platform.ErrPlatformNotFound))
	assertNoEnvFiles(t, fx.dir)
}

func TestGenerateNotFoundLeavesExistingFile(t *testing.T) {
	fx := setup(t, registry)
	g := newGenerator(t)

	existing := filepath.Join(fx.dir, ".env-debian")
	require.NoError(t, os.WriteFile(existing, []byte("export NODE_IMAGE=old\n"), 0600))

	_, err := g.Generate(Options{Platform: "debian", PlatformsFile: fx.registry, OutputDir: fx.dir})
	require.Error(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "export NODE_IMAGE=old\n", string(data))
}

func TestGenerateMalformed(t *testing.T) {
	fx := setup(t, "PLATFORMS:\n  stack: {image: ami-1\n")
	g := newGenerator(t)

	_, err := g.Generate(Options{Platform: "stack", PlatformsFile: fx.registry, OutputDir: fx.dir})
	require.Error(t, err)

	var parseErr *platform.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assertNoEnvFiles(t, fx.dir)
}

func TestGenerateSchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		platform string
	}{
		{
			name:     "missing PLATFORMS key",
			content:  "OTHER:\n  stack: {}\n",
			platform: "stack",
		},
		{
			name:     "empty document",
			content:  "",
			platform: "stack",
		},
		{
			name:     "null PLATFORMS",
			content:  "PLATFORMS:\n",
			platform: "stack",
		},
		{
			name:     "missing required field",
			content:  registry,
			platform: "incomplete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := setup(t, tt.content)
			g := newGenerator(t)

			_, err := g.Generate(Options{Platform: tt.platform, PlatformsFile: fx.registry, OutputDir: fx.dir})
			require.Error(t, err)

			var schemaErr *platform.SchemaError
			assert.True(t, errors.As(err, &schemaErr))
			assertNoEnvFiles(t, fx.dir)
		})
	}
}

func TestIncompleteEntryDoesNotBlockOthers(t *testing.T) {
	fx := setup(t, registry)
	g := newGenerator(t)

	_, err := g.Generate(Options{Platform: "stack", PlatformsFile: fx.registry, OutputDir: fx.dir})
	assert.NoError(t, err)
}

func TestGenerateWithNonStringKeys(t *testing.T) {
	fx := setup(t, `PLATFORMS:
  stack:
    image: ami-1
    instance_type: t3.micro
    username: ec2-user
    tags: {1: x}
  2019:
    image: ami-2019
    instance_type: 123
    username: Administrator
    shell_type: cmd
    disks: {0: root, 1: data}
`)
	g := newGenerator(t)

	tests := []struct {
		platform string
		expected string
	}{
		{
			platform: "stack",
			expected: "export STACK_IMAGE=ami-1\n" +
				"export STACK_INSTANCE_TYPE=t3.micro\n" +
				"export STACK_LABEL=stack\n" +
				"export STACK_SHELL_TYPE=sh\n" +
				"export STACK_USER=ec2-user\n",
		},
		{
			platform: "2019",
			expected: "export NODE_IMAGE=ami-2019\n" +
				"export NODE_INSTANCE_TYPE=123\n" +
				"export NODE_LABEL=2019\n" +
				"export NODE_SHELL_TYPE=cmd\n" +
				"export NODE_USER=Administrator\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			res, err := g.Generate(Options{Platform: tt.platform, PlatformsFile: fx.registry, OutputDir: fx.dir})
			require.NoError(t, err)

			data, err := os.ReadFile(res.Path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestGenerateFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platforms.toml")
	content := `[PLATFORMS.stack]
image = "ami-1"
instance_type = "t3.micro"
username = "ec2-user"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	yamlFx := setup(t, registry)
	g := newGenerator(t)

	fromTOML, err := g.Generate(Options{Platform: "stack", PlatformsFile: path, OutputDir: dir})
	require.NoError(t, err)
	fromYAML, err := g.Generate(Options{Platform: "stack", PlatformsFile: yamlFx.registry, OutputDir: yamlFx.dir})
	require.NoError(t, err)

	tomlData, err := os.ReadFile(fromTOML.Path)
	require.NoError(t, err)
	yamlData, err := os.ReadFile(fromYAML.Path)
	require.NoError(t, err)
	assert.Equal(t, string(yamlData), string(tomlData))
}
