package plugins

import (
	goplugin "plugin"
	"sort"

	"github.com/cthread-go/cthread"
)

// Plugin is the interface a loaded Go plugin's exported "Plugin" symbol
// must implement, the Go-idiomatic analogue of plugin_factory's pairing
// of a plugin_definition with a shared_ptr<plugin> instance.
type Plugin interface {
	// Name returns the plugin's own idea of its name. The registry
	// checks this against the name the plugin was registered or loaded
	// under and fails with KindNameMismatch on a mismatch.
	Name() string
	// Dependencies lists the names of plugins that must be constructed
	// (and, where applicable, started) before this one.
	Dependencies() []string
}

// Factory constructs a Plugin on demand. Factories are registered once
// per name; Get calls the factory at most once and caches the result, the
// same single-construction guarantee plugin_repository::get_plugin gives
// for a given filename.
type Factory func() (Plugin, error)

// Registry is a process-wide, name-keyed table of plugin factories and
// their constructed instances, guarded by a cthread.Mutex exactly the way
// plugin_repository guards its f_plugins map — a separate concern from
// the thread/worker primitives, sharing only the lock implementation.
type Registry struct {
	mu        *cthread.Mutex
	factories map[string]Factory
	instances map[string]Plugin
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Plugin),
		mu:        cthread.NewMutex(),
	}
}

// Register associates name with factory. It fails with KindAlreadyExists
// if name is already registered, mirroring plugin_repository's rule that
// a given filename is only ever loaded (and therefore registered) once.
func (r *Registry) Register(name string, factory Factory) error {
	g := cthread.NewGuard(r.mu)
	defer g.Release()

	if _, exists := r.factories[name]; exists {
		return cthread.NewError(cthread.KindAlreadyExists, "plugins: a factory named \""+name+"\" is already registered")
	}
	r.factories[name] = factory
	return nil
}

// Get constructs (on first call) and returns the plugin registered under
// name. Subsequent calls return the same cached instance. It fails with
// KindNotFound if no factory was registered under that name, and with
// KindNameMismatch if the constructed plugin reports a different name
// than the one it was registered under.
func (r *Registry) Get(name string) (Plugin, error) {
	g := cthread.NewGuard(r.mu)
	defer g.Release()

	if p, ok := r.instances[name]; ok {
		return p, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, cthread.NewError(cthread.KindNotFound, "plugins: no factory registered under \""+name+"\"")
	}

	p, err := factory()
	if err != nil {
		return nil, cthread.WrapError(cthread.KindInvalid, "plugins: constructing \""+name+"\"", err)
	}
	if p.Name() != name {
		return nil, cthread.NewError(cthread.KindNameMismatch, "plugins: plugin registered as \""+name+"\" reports its name as \""+p.Name()+"\"")
	}

	r.instances[name] = p
	return p, nil
}

// LoadFromFile dlopen()s (via Go's plugin package) the shared object at
// path, looks up its exported "Plugin" symbol — which must be a func()
// (Plugin, error) — and registers it as a Factory under name. This is the
// dynamic-loading half of plugin_names::to_filename plus
// plugin_repository::get_plugin: resolving a bare name to a file is
// Names' job; actually opening that file is this method's.
func (r *Registry) LoadFromFile(name, path string) error {
	lib, err := goplugin.Open(path)
	if err != nil {
		return cthread.WrapError(cthread.KindInvalid, "plugins: opening \""+path+"\"", err)
	}
	sym, err := lib.Lookup("Plugin")
	if err != nil {
		return cthread.WrapError(cthread.KindInvalid, "plugins: \""+path+"\" has no exported Plugin symbol", err)
	}
	factory, ok := sym.(func() (Plugin, error))
	if !ok {
		return cthread.NewError(cthread.KindInvalid, "plugins: \""+path+"\"'s Plugin symbol has the wrong signature")
	}
	return r.Register(name, factory)
}

// Ordered returns the names in names, plus every dependency reachable
// from them, topologically sorted so that every name appears after all
// of its transitive Dependencies — equivalent to
// the load order plugin_collection::load_plugins enforces before it calls
// each plugin's bootstrap(). Names not present in the registry at all are
// treated as leaves with no dependencies of their own; Get is expected to
// surface the KindNotFound error when the caller actually tries to
// construct one.
//
// Ordered fails with KindLogic if the dependency graph contains a cycle.
func (r *Registry) Ordered(names []string) ([]string, error) {
	g := cthread.NewGuard(r.mu)
	defer g.Release()

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return cthread.NewError(cthread.KindLogic, "plugins: dependency cycle detected at \""+name+"\"")
		}
		state[name] = visiting

		deps := r.dependenciesLocked(name)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = visited
		order = append(order, name)
		return nil
	}

	sortedNames := append([]string(nil), names...)
	sort.Strings(sortedNames)
	for _, name := range sortedNames {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// dependenciesLocked returns the declared dependencies of an already
// constructed instance, or nil for a name with no cached instance (either
// not yet built, or unknown to this registry). The caller must hold r.mu.
func (r *Registry) dependenciesLocked(name string) []string {
	if p, ok := r.instances[name]; ok {
		return p.Dependencies()
	}
	return nil
}

// LoadOrdered constructs every plugin in names in dependency order,
// returning the constructed instances in that same order. It stops and
// returns the first error encountered, exactly as load_plugins does when
// one plugin in the set fails to initialize.
func (r *Registry) LoadOrdered(names []string) ([]Plugin, error) {
	// A first pass constructs every named plugin so their declared
	// Dependencies() are known to Ordered; Get caches each instance, so
	// the second pass below is free.
	for _, name := range names {
		if _, err := r.Get(name); err != nil {
			return nil, err
		}
	}

	ordered, err := r.Ordered(names)
	if err != nil {
		return nil, err
	}

	plugins := make([]Plugin, 0, len(ordered))
	for _, name := range ordered {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}
