// Package generator produces per-platform env files from the platform registry
package generator

import (
	"github.com/pkg/errors"

	"github.com/fastertools/platform-env/internal/envfile"
	"github.com/fastertools/platform-env/internal/platform"
	"github.com/fastertools/platform-env/internal/validation"
)

// Options controls a single generation run
type Options struct {
	Platform      string
	PlatformsFile string
	OutputDir     string
}

// Result describes the file that was written
type Result struct {
	Path     string
	Prefix   string
	Platform platform.Platform
}

// Generator resolves platforms and writes their env files
type Generator struct {
	validator *validation.Validator
}

// New creates a generator
func New() (*Generator, error) {
	v, err := validation.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize validator")
	}
	return &Generator{validator: v}, nil
}

// Load reads the registry and checks that it carries a PLATFORMS mapping
func (g *Generator) Load(path string) (*platform.Registry, error) {
	reg, err := platform.Load(path)
	if err != nil {
		return nil, err
	}
	if err := g.validator.ValidateDocument(reg.Raw()); err != nil {
		return nil, &platform.SchemaError{Path: reg.Path(), Err: err}
	}
	return reg, nil
}

// Resolve looks up a platform and validates its entry
func (g *Generator) Resolve(reg *platform.Registry, name string) (platform.Platform, error) {
	p, err := reg.Lookup(name)
	if err != nil {
		return platform.Platform{}, err
	}
	entry, _ := reg.Entry(name)
	if err := g.validator.ValidatePlatform(name, entry); err != nil {
		return platform.Platform{}, &platform.SchemaError{Path: reg.Path(), Platform: name, Err: err}
	}
	return p, nil
}

// Generate writes the env file for opts.Platform. Nothing is written unless
// the registry parses and the platform resolves.
func (g *Generator) Generate(opts Options) (*Result, error) {
	reg, err := g.Load(opts.PlatformsFile)
	if err != nil {
		return nil, err
	}

	p, err := g.Resolve(reg, opts.Platform)
	if err != nil {
		return nil, err
	}

	path, err := envfile.Write(opts.OutputDir, opts.Platform, p)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:     path,
		Prefix:   platform.Prefix(opts.Platform),
		Platform: p,
	}, nil
}
