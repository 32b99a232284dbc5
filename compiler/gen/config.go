package gen

import (
	"go/token"
	"path/filepath"
	"runtime"
)

// DefaultHeader is the first line of every generated file.
const DefaultHeader = "Code generated by icegraph. DO NOT EDIT."

// Config holds the code generation settings.
type Config struct {
	// Target is the directory the generated package is written to.
	Target string
	// Package is the name of the generated package. Defaults to the base name of Target.
	Package string
	// Header is the comment placed at the top of each generated file.
	Header string
	// Workers bounds the number of files rendered in parallel. Defaults to GOMAXPROCS.
	Workers int
}

// PackageName returns the configured package name, falling back to the target's base name.
func (c *Config) PackageName() string {
	if c.Package != "" {
		return c.Package
	}
	if c.Target != "" {
		return filepath.Base(c.Target)
	}
	return ""
}

// HeaderComment returns the configured header or DefaultHeader.
func (c *Config) HeaderComment() string {
	if c.Header != "" {
		return c.Header
	}
	return DefaultHeader
}

// WorkerCount returns the configured worker limit.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate checks the settings required for writing files.
func (c *Config) Validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}
	pkg := c.PackageName()
	if !token.IsIdentifier(pkg) || token.Lookup(pkg).IsKeyword() {
		return NewConfigError("Package", pkg, "not a valid Go package name")
	}
	return nil
}
