package identity

import "fmt"

// holds the configured token verifiers, one per external provider
type Registry struct {
	verifiers map[string]Verifier
}

// registers the given verifiers by name
func NewRegistry(list ...Verifier) *Registry {
	m := make(map[string]Verifier, len(list))
	for _, v := range list {
		m[v.Name()] = v
	}

	return &Registry{verifiers: m}
}

// returns the verifier for a provider name
func (r *Registry) Get(name string) (Verifier, error) {
	v, ok := r.verifiers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	return v, nil
}

// returns the registered provider names
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.verifiers))
	for name := range r.verifiers {
		names = append(names, name)
	}

	return names
}
