package instances

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reminder_dispatch_job/internal/domain/instance"
)

var ErrUnknownInstance = errors.New("unknown instance")

// Factory builds the capability record of the instance stored in dir.
type Factory func(name, dir string) (instance.Methods, error)

// Registry maps instance identifiers to their capability records.
// Names keeps registration order, which is the order the job processes instances in.
type Registry struct {
	names   []string
	methods map[string]instance.Methods
	errs    map[string]error
}

func NewRegistry() *Registry {
	return &Registry{
		methods: make(map[string]instance.Methods),
		errs:    make(map[string]error),
	}
}

// Register adds or replaces the capability record for name.
func (r *Registry) Register(name string, m instance.Methods) {
	r.track(name)
	delete(r.errs, name)
	r.methods[name] = m
}

// registerFailure keeps name enumerable while remembering why it could not be loaded,
// so the failure surfaces when the instance is processed rather than aborting discovery.
func (r *Registry) registerFailure(name string, err error) {
	r.track(name)
	delete(r.methods, name)
	r.errs[name] = err
}

func (r *Registry) track(name string) {
	if _, ok := r.methods[name]; ok {
		return
	}
	if _, ok := r.errs[name]; ok {
		return
	}
	r.names = append(r.names, name)
}

// Names returns the registered identifiers in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the capability record for name.
func (r *Registry) Lookup(name string) (instance.Methods, error) {
	if err, ok := r.errs[name]; ok {
		return nil, fmt.Errorf("instance %s failed to load: %w", name, err)
	}
	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstance, name)
	}
	return m, nil
}

// Discover returns the registered identifiers. A Registry is static, so it never fails.
func (r *Registry) Discover() ([]string, error) {
	return r.Names(), nil
}

// Scan lists root and registers every directory in it as an instance, in name order.
// Plain files are ignored. Only a failure to read root itself is returned.
func Scan(root string, factory Factory) (*Registry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read instances directory %s: %w", root, err)
	}

	reg := NewRegistry()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		m, err := factory(name, filepath.Join(root, name))
		if err != nil {
			reg.registerFailure(name, err)
			continue
		}
		reg.Register(name, m)
	}
	return reg, nil
}

// Directory rescans the instances root on every Discover, so instances added or removed
// between scheduled runs are picked up without a restart.
type Directory struct {
	root    string
	factory Factory
	current *Registry
}

func NewDirectory(root string, factory Factory) *Directory {
	return &Directory{root: root, factory: factory}
}

func (d *Directory) Discover() ([]string, error) {
	reg, err := Scan(d.root, d.factory)
	if err != nil {
		return nil, err
	}
	d.current = reg
	return reg.Names(), nil
}

// Lookup resolves name against the most recent scan.
func (d *Directory) Lookup(name string) (instance.Methods, error) {
	if d.current == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstance, name)
	}
	return d.current.Lookup(name)
}
