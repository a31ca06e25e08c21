package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastertools/platform-env/internal/platform"
)

// TestCommandExecution helps test cobra command execution
type TestCommandExecution struct {
	Args         []string
	ExpectError  bool
	ExpectOutput []string
	Setup        func(t *testing.T) string
	Validate     func(t *testing.T, dir string, stdout string, err error)
}

// ExecuteCommandTest runs a command test with proper setup/teardown
func ExecuteCommandTest(t *testing.T, test TestCommandExecution) {
	t.Helper()

	var dir string
	if test.Setup != nil {
		dir = test.Setup(t)
	}

	stdout, stderr, err := RunCommand(t, test.Args...)

	if test.ExpectError {
		assert.Error(t, err)
	} else {
		assert.NoError(t, err)
	}

	output := stdout + stderr
	for _, expected := range test.ExpectOutput {
		assert.Contains(t, output, expected)
	}

	if test.Validate != nil {
		test.Validate(t, dir, stdout, err)
	}
}

// RunCommand executes a fresh root command and returns its stdout and stderr
func RunCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	oldNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = oldNoColor })

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// MockSurveyAskOne mocks survey.AskOne for testing interactive prompts
func MockSurveyAskOne(response interface{}) func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	return func(p survey.Prompt, resp interface{}, opts ...survey.AskOpt) error {
		switch v := resp.(type) {
		case *string:
			*v = response.(string)
		case *bool:
			*v = response.(bool)
		case *int:
			*v = response.(int)
		}
		return nil
	}
}

// SetupTestEnvironment switches into a temporary directory holding the
// given registry as .e2e-platforms.yaml. An empty registry writes no file.
func SetupTestEnvironment(t *testing.T, registry string) string {
	t.Helper()
	dir := t.TempDir()

	// Save current directory
	oldWd, err := os.Getwd()
	require.NoError(t, err)

	err = os.Chdir(dir)
	require.NoError(t, err)

	// Restore on cleanup
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})

	if registry != "" {
		err = os.WriteFile(filepath.Join(dir, platform.DefaultFile), []byte(registry), 0600)
		require.NoError(t, err)
	}

	return dir
}

// AssertNoEnvFiles checks that no .env-* file exists in dir
func AssertNoEnvFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".env-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
