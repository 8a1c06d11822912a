package gen

// Config carries the settings of the rendering surface. The builders
// themselves take no configuration; renderers receive a Config alongside
// the IR and the relation graph.
type Config struct {
	// Package is the output package import path.
	Package string
	// Target is the output directory.
	Target string
	// Header is the comment added at the top of each generated file.
	Header string
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig creates a Config from the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/strata".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}
