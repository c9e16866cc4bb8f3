// Package plugins is a port of cppthread's plugin loading facility
// (plugins_paths.cpp, plugins_names.cpp, plugins_repository.cpp,
// plugins_factory.cpp): a set of search paths, a validated list of plugin
// names resolved against those paths, and a process-wide repository that
// loads each distinct file at most once and orders plugins by declared
// dependency.
//
// Unlike the source, which dlopen()s a .so and looks up a well-known
// factory symbol, this package loads Go plugins with the standard
// library's plugin package and looks up a symbol implementing the Plugin
// interface.
package plugins

import (
	"path/filepath"
	"strings"
)

// Paths is an ordered list of directories to search for plugin files. It
// deliberately keeps duplicates out and preserves insertion order, the
// same contract plugin_paths gives callers in the source.
type Paths struct {
	paths          []string
	allowRedirects bool
}

// NewPaths returns an empty Paths list.
func NewPaths() *Paths {
	return &Paths{}
}

// Size returns the number of registered paths.
func (p *Paths) Size() int { return len(p.paths) }

// At returns the path at idx.
func (p *Paths) At(idx int) string { return p.paths[idx] }

// SetAllowRedirects controls whether Canonicalize follows symlinks. The
// source defaults this to false so a plugin directory can't be swapped out
// from under a running server by relinking it.
func (p *Paths) SetAllowRedirects(allow bool) { p.allowRedirects = allow }

// AllowRedirects reports the current redirect policy.
func (p *Paths) AllowRedirects() bool { return p.allowRedirects }

// Canonicalize resolves path to an absolute, cleaned form. When redirects
// are disallowed, it stops short of resolving symlinks (filepath.Abs plus
// Clean only); when allowed, it also resolves symlinks via
// filepath.EvalSymlinks.
func (p *Paths) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	if !p.allowRedirects {
		return abs, nil
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// Push appends a single path, skipping it if already present.
func (p *Paths) Push(path string) {
	canon, err := p.Canonicalize(path)
	if err != nil {
		canon = path
	}
	for _, existing := range p.paths {
		if existing == canon {
			return
		}
	}
	p.paths = append(p.paths, canon)
}

// Add splits a colon-separated list of paths (the same separator the
// PATH environment variable uses) and pushes each one.
func (p *Paths) Add(list string) {
	for _, part := range strings.Split(list, ":") {
		part = strings.TrimSpace(part)
		if part != "" {
			p.Push(part)
		}
	}
}

// Erase removes path from the list, if present.
func (p *Paths) Erase(path string) {
	canon, err := p.Canonicalize(path)
	if err != nil {
		canon = path
	}
	for i, existing := range p.paths {
		if existing == canon {
			p.paths = append(p.paths[:i], p.paths[i+1:]...)
			return
		}
	}
}
