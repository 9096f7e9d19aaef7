package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// Binding represents a keybinding mapping
type Binding struct {
	Key     string
	Action  Action
	Context Context
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key -> action
	bindings map[Context]map[string]Action

	// parents maps a context to the context it inherits from before global
	parents map[Context]Context

	// multiKeyState tracks multi-key sequences (like 'gg' in vim)
	multiKeyState map[Context]string
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[Context]map[string]Action),
		parents:       make(map[Context]Context),
		multiKeyState: make(map[Context]string),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, key string, action Action) {
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]Action)
	}
	r.bindings[context][key] = action
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, action Action) {
	for _, key := range keys {
		r.Register(context, key, action)
	}
}

// Unregister removes a key from a context
func (r *Registry) Unregister(context Context, key string) {
	delete(r.bindings[context], key)
}

// SetParent makes context fall back to parent before global
func (r *Registry) SetParent(context, parent Context) {
	if context == parent || context == ContextGlobal {
		return
	}
	r.parents[context] = parent
}

// chain returns the lookup order for a context, ending with global
func (r *Registry) chain(context Context) []Context {
	order := []Context{context}
	seen := map[Context]bool{context: true}
	for c := context; ; {
		parent, ok := r.parents[c]
		if !ok || seen[parent] {
			break
		}
		order = append(order, parent)
		seen[parent] = true
		c = parent
	}
	if !seen[ContextGlobal] {
		order = append(order, ContextGlobal)
	}
	return order
}

// Match attempts to match a key to an action in the given context
// Returns the action and whether a match was found
// Contexts are checked in priority order: specific context -> parents -> global
func (r *Registry) Match(context Context, key string) (Action, bool) {
	for _, c := range r.chain(context) {
		if action, ok := r.bindings[c][key]; ok {
			return action, true
		}
	}
	return "", false
}

// MatchMultiKey handles multi-key sequences like 'gg' for go-to-top
// Returns the action, whether it's a complete match, and whether it's a partial match
func (r *Registry) MatchMultiKey(context Context, key string) (Action, bool, bool) {
	if prevKey, hasPending := r.multiKeyState[context]; hasPending {
		delete(r.multiKeyState, context)

		if action, ok := r.Match(context, prevKey+key); ok {
			return action, true, false
		}
		return "", false, false
	}

	// A key only starts a sequence when it resolves to the prepare action
	if action, ok := r.Match(context, key); ok && action == ActionGoToTopPrepare {
		r.multiKeyState[context] = key
		return "", false, true
	}

	action, ok := r.Match(context, key)
	return action, ok, false
}

// ClearMultiKeyState clears any pending multi-key state for a context
func (r *Registry) ClearMultiKeyState(context Context) {
	delete(r.multiKeyState, context)
}

// GetBinding returns the key(s) bound to an action in a context, sorted.
// The first context in the lookup chain that binds the action wins.
func (r *Registry) GetBinding(context Context, action Action) []string {
	for _, c := range r.chain(context) {
		var keys []string
		for key, act := range r.bindings[c] {
			if act == action && r.resolves(context, key, action) {
				keys = append(keys, key)
			}
		}
		if len(keys) > 0 {
			sort.Strings(keys)
			return keys
		}
	}
	return nil
}

// resolves reports whether key still reaches action from context
func (r *Registry) resolves(context Context, key string, action Action) bool {
	got, ok := r.Match(context, key)
	return ok && got == action
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, action Action) string {
	keys := r.GetBinding(context, action)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns the effective bindings for a context, shadowed keys
// omitted, sorted by context order then key
func (r *Registry) ListBindings(context Context) []Binding {
	var bindings []Binding
	seen := make(map[string]bool)

	for _, c := range r.chain(context) {
		keys := make([]string, 0, len(r.bindings[c]))
		for key := range r.bindings[c] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if seen[key] {
				continue
			}
			seen[key] = true
			bindings = append(bindings, Binding{
				Key:     key,
				Action:  r.bindings[c][key],
				Context: c,
			})
		}
	}

	return bindings
}

// Validate checks for invalid bindings
func (r *Registry) Validate() error {
	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("context '%s': %w", context, err)
			}
			if err := ValidateAction(string(action)); err != nil {
				return fmt.Errorf("context '%s', key '%s': %w", context, key, err)
			}
		}
	}
	return nil
}

// HasBinding checks if a key is bound in a context
func (r *Registry) HasBinding(context Context, key string) bool {
	_, ok := r.Match(context, key)
	return ok
}

// Clone creates a deep copy of the registry
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()

	for context, contextBindings := range r.bindings {
		for key, action := range contextBindings {
			clone.Register(context, key, action)
		}
	}
	for context, parent := range r.parents {
		clone.parents[context] = parent
	}

	return clone
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for key, action := range contextBindings {
			r.Register(context, key, action)
		}
	}
	for context, parent := range other.parents {
		r.parents[context] = parent
	}
}

// Contexts returns every context that has bindings, sorted
func (r *Registry) Contexts() []Context {
	contexts := make([]Context, 0, len(r.bindings))
	for context := range r.bindings {
		contexts = append(contexts, context)
	}
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })
	return contexts
}
