package platform

import "fmt"

// NotFoundError reports a platform name missing from the registry
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Platform \"%s\" not found", e.Name)
}

// Is reports whether target is ErrPlatformNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrPlatformNotFound
}

// ParseError reports a registry file that could not be read or decoded
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a registry that decoded but does not have the expected shape
type SchemaError struct {
	Path     string
	Platform string
	Err      error
}

func (e *SchemaError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("%s: platform %q: %v", e.Path, e.Platform, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
