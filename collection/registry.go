package collection

import (
	"fmt"
	"strings"
	"sync"
)

// Namespaced is a collection that occupies a namespace.
//
// It is implemented by [Item], [Map], [AppendStore] and [DequeStore].
type Namespaced interface {
	Namespace() string
}

// NamespaceConflictError indicates that two collections registered with the
// same [Registry] have namespaces that may produce the same addresses.
type NamespaceConflictError struct {
	Namespace, Existing string
}

func (e NamespaceConflictError) Error() string {
	if e.Namespace == e.Existing {
		return fmt.Sprintf("namespace %q is already registered", e.Namespace)
	}

	return fmt.Sprintf(
		"namespace %q overlaps with the registered namespace %q",
		e.Namespace,
		e.Existing,
	)
}

// Registry detects collections that share a backing store and have
// conflicting namespaces.
//
// Namespaces conflict if they are equal, or if one is a prefix of the other.
// Registration is optional. Collections do not consult the registry.
type Registry struct {
	m          sync.Mutex
	namespaces map[string]struct{}
}

// Register adds the namespaces of the given collections to the registry.
//
// It returns a [NamespaceConflictError] if any collection conflicts with one
// that is already registered, or with another in cs. The registry is
// unchanged if an error is returned.
func (r *Registry) Register(cs ...Namespaced) error {
	r.m.Lock()
	defer r.m.Unlock()

	added := map[string]struct{}{}

	for _, c := range cs {
		ns := c.Namespace()

		for _, set := range []map[string]struct{}{r.namespaces, added} {
			for existing := range set {
				if strings.HasPrefix(ns, existing) || strings.HasPrefix(existing, ns) {
					return NamespaceConflictError{ns, existing}
				}
			}
		}

		added[ns] = struct{}{}
	}

	if r.namespaces == nil {
		r.namespaces = map[string]struct{}{}
	}

	for ns := range added {
		r.namespaces[ns] = struct{}{}
	}

	return nil
}

// MustRegister adds the namespaces of the given collections to the registry,
// or panics if any of them conflict.
func (r *Registry) MustRegister(cs ...Namespaced) {
	if err := r.Register(cs...); err != nil {
		panic(err)
	}
}
