package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ecmascriptReserved lists the ECMAScript 2022 reserved keywords, the same
// set plugin_names::is_ecmascript_reserved checks against when a caller
// wants names that are also safe to use as identifiers inside a scripting
// engine embedded in the host application.
var ecmascriptReserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "else": true,
	"enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true,
	"null": true, "return": true, "super": true, "switch": true,
	"this": true, "throw": true, "true": true, "try": true,
	"typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// Names resolves bare plugin names to filenames using a Paths search list,
// and validates names before they are used as map keys or passed to the
// Go plugin loader.
type Names struct {
	paths              *Paths
	preventScriptNames bool
	names              map[string]string // name -> resolved filename
}

// NewNames returns a Names bound to the given search paths. A deep copy of
// paths is not taken, mirroring the source's own decision to take the
// paths by const reference and document that they must not change after
// construction.
func NewNames(paths *Paths, preventScriptNames bool) *Names {
	return &Names{
		paths:              paths,
		preventScriptNames: preventScriptNames,
		names:              make(map[string]string),
	}
}

// Validate reports whether name is a legal plugin name: [A-Za-z_][A-Za-z0-9_]*,
// and (when the Names was constructed with preventScriptNames) not an
// ECMAScript reserved keyword.
func (n *Names) Validate(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	if n.preventScriptNames && ecmascriptReserved[name] {
		return false
	}
	return true
}

// ToFilename searches the configured paths for a file matching one of
// "<path>/<name>.so", "<path>/lib<name>.so", "<path>/<name>/<name>.so" or
// "<path>/<name>/lib<name>.so", in that order, and returns the first
// match. It returns an empty string if none of the paths has the plugin.
func (n *Names) ToFilename(name string) string {
	candidates := func(dir string) []string {
		return []string{
			filepath.Join(dir, name+".so"),
			filepath.Join(dir, "lib"+name+".so"),
			filepath.Join(dir, name, name+".so"),
			filepath.Join(dir, name, "lib"+name+".so"),
		}
	}

	dirs := []string{"."}
	if n.paths != nil && n.paths.Size() > 0 {
		dirs = nil
		for i := 0; i < n.paths.Size(); i++ {
			dirs = append(dirs, n.paths.At(i))
		}
	}

	for _, dir := range dirs {
		for _, candidate := range candidates(dir) {
			if isReadableFile(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func isReadableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Push adds a single plugin name (bare, or a full path to a .so file) to
// the resolved set. "server" is reserved for the host process, matching
// the source's own reservation.
func (n *Names) Push(name string) error {
	var resolved, bare string

	if strings.Contains(name, "/") {
		base := filepath.Base(name)
		base = strings.TrimSuffix(base, ".so")
		bare = strings.TrimPrefix(base, "lib")
		if !n.Validate(bare) {
			return fmt.Errorf("plugins: invalid plugin name %q (from path %q)", bare, name)
		}
		resolved = name
	} else {
		if !n.Validate(name) {
			return fmt.Errorf("plugins: invalid plugin name %q", name)
		}
		resolved = n.ToFilename(name)
		if resolved == "" {
			return fmt.Errorf("plugins: plugin named %q not found in any of the specified paths", name)
		}
		bare = name
	}

	if bare == "server" {
		return fmt.Errorf("plugins: the name %q is reserved for the main running process", bare)
	}

	n.names[bare] = resolved
	return nil
}

// Add splits a comma-separated list of plugin names (whitespace around
// each entry is trimmed) and pushes each one.
func (n *Names) Add(set string) error {
	for _, part := range strings.Split(set, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := n.Push(part); err != nil {
			return err
		}
	}
	return nil
}

// Names returns a copy of the resolved name-to-filename map.
func (n *Names) Names() map[string]string {
	out := make(map[string]string, len(n.names))
	for k, v := range n.names {
		out[k] = v
	}
	return out
}

// FindPlugins globs every configured path for files matching
// "<prefix>*<suffix>.so" and "lib<prefix>*<suffix>.so", directly in the
// path and one level of subdirectory down, and pushes every match.
func (n *Names) FindPlugins(prefix, suffix string) error {
	dirs := []string{"."}
	if n.paths != nil && n.paths.Size() > 0 {
		dirs = nil
		for i := 0; i < n.paths.Size(); i++ {
			dirs = append(dirs, n.paths.At(i))
		}
	}

	patterns := func(dir string) []string {
		pat := prefix + "*" + suffix + ".so"
		libPat := "lib" + pat
		return []string{
			filepath.Join(dir, pat),
			filepath.Join(dir, libPat),
			filepath.Join(dir, "*", pat),
			filepath.Join(dir, "*", libPat),
		}
	}

	for _, dir := range dirs {
		for _, pattern := range patterns(dir) {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return fmt.Errorf("plugins: globbing %q: %w", pattern, err)
			}
			for _, m := range matches {
				if err := n.Push(m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
