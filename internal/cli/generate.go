package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/fastertools/platform-env/internal/envfile"
	"github.com/fastertools/platform-env/internal/generator"
)

// askOne is swapped out in tests
var askOne = survey.AskOne

// GenerateOptions holds options for the root generate command
type GenerateOptions struct {
	Platform    string
	// HasPlatform is set when Platform came from an argument, even an empty one
	HasPlatform bool
	Interactive bool
}

func runGenerate(w io.Writer, opts *rootOptions, genOpts *GenerateOptions) error {
	g, err := generator.New()
	if err != nil {
		return err
	}

	name := genOpts.Platform
	if !genOpts.HasPlatform {
		if !genOpts.Interactive {
			return fmt.Errorf("platform name is required (or use --interactive)")
		}
		reg, err := g.Load(opts.platformsFile())
		if err != nil {
			return err
		}
		if name, err = promptForPlatform(reg.Names()); err != nil {
			return err
		}
	}

	opts.Debug(w, "Reading platforms from %s", opts.platformsFile())

	target := filepath.Join(opts.outputDir(), envfile.FileName(name))
	previous, prevErr := envfile.ReadFile(target)

	res, err := g.Generate(generator.Options{
		Platform:      name,
		PlatformsFile: opts.platformsFile(),
		OutputDir:     opts.outputDir(),
	})
	if err != nil {
		return err
	}

	opts.Debug(w, "Using %s_ prefix for %s", res.Prefix, name)
	if prevErr == nil {
		opts.Debug(w, "Replaced existing %s (changed: %s)", res.Path, changedVars(previous, name, res))
	}
	Success(w, "Wrote %s", res.Path)
	return nil
}

// changedVars lists the variables whose value differs from a previous env file
func changedVars(previous map[string]string, name string, res *generator.Result) string {
	var changed []string
	for field, value := range envfile.Values(name, res.Platform) {
		key := res.Prefix + "_" + field
		if old, ok := previous[key]; !ok || old != value {
			changed = append(changed, key)
		}
	}
	if len(changed) == 0 {
		return "none"
	}
	sort.Strings(changed)
	return strings.Join(changed, ", ")
}

func promptForPlatform(names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no platforms declared in registry")
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select platform:",
		Options: names,
		Help:    "The env file is written as .env-<platform> in the output directory",
	}
	if err := askOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}
