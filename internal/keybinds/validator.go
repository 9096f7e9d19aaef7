package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound
	reservedKeys map[string]bool

	// contextHierarchy defines context inheritance
	contextHierarchy map[Context]Context

	// knownActions are the actions the interface handles
	knownActions map[Action]bool
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	hierarchy := map[Context]Context{
		ContextViewer:      ContextGlobal,
		ContextQueryEditor: ContextGlobal,
		ContextTextInput:   ContextGlobal,
		ContextHelp:        ContextGlobal,
	}
	for _, ctx := range ViewContexts {
		hierarchy[ctx] = ContextViewer
	}

	known := make(map[Action]bool)
	for _, a := range []Action{
		ActionQuit, ActionQuitForce, ActionNavigateUp, ActionNavigateDown,
		ActionPageUp, ActionPageDown, ActionHalfPageUp, ActionHalfPageDown,
		ActionGoToTop, ActionGoToBottom, ActionGoToTopPrepare, ActionSelect,
		ActionBack, ActionRefresh, ActionOpenSearch, ActionDismissError,
		ActionCopyToClipboard, ActionOpenHelp, ActionOpenDocuments,
		ActionOpenQuery, ActionOpenGraphs, ActionExecute, ActionFocusEditor,
		ActionLeaveEditor, ActionFilterResults, ActionHistoryPrev,
		ActionHistoryNext, ActionTextSubmit, ActionTextCancel,
		ActionCloseModal, ActionNoOp,
	} {
		known[a] = true
	}

	return &Validator{
		reservedKeys: map[string]bool{
			"ctrl+c": true, // Force quit should always work
		},
		contextHierarchy: hierarchy,
		knownActions:     known,
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	v.checkKeys(registry, result)
	v.checkUnknownActions(registry, result)
	v.checkReservedKeys(registry, result)
	v.checkMultiKeySequences(registry, result)
	v.checkShadowing(registry, result)

	return result
}

// ValidateConfig validates a configuration before applying it
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	registry := NewRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Message: err.Error(),
		})
		return result
	}

	for context, parent := range v.contextHierarchy {
		registry.SetParent(context, parent)
	}

	return v.ValidateRegistry(registry)
}

// sortedKeys returns the keys bound in a context in a stable order
func sortedKeys(bindings map[string]Action) []string {
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// checkKeys rejects malformed key strings
func (v *Validator) checkKeys(registry *Registry, result *ValidationResult) {
	for _, context := range registry.Contexts() {
		for _, key := range sortedKeys(registry.bindings[context]) {
			if err := ValidateKey(key); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Key:     key,
					Message: err.Error(),
				})
			}
		}
	}
}

// checkUnknownActions warns about actions nothing handles
func (v *Validator) checkUnknownActions(registry *Registry, result *ValidationResult) {
	for _, context := range registry.Contexts() {
		bindings := registry.bindings[context]
		for _, key := range sortedKeys(bindings) {
			if !v.knownActions[bindings[key]] {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("unknown action '%s'", bindings[key]),
				})
			}
		}
	}
}

// checkReservedKeys checks if any reserved keys have been rebound
func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for _, context := range registry.Contexts() {
		bindings := registry.bindings[context]
		for _, key := range sortedKeys(bindings) {
			if v.reservedKeys[key] && bindings[key] != ActionQuitForce {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: "reserved key rebound (may cause issues)",
				})
			}
		}
	}
}

// checkMultiKeySequences flags sequences whose first key cannot start them
func (v *Validator) checkMultiKeySequences(registry *Registry, result *ValidationResult) {
	for _, context := range registry.Contexts() {
		for _, key := range sortedKeys(registry.bindings[context]) {
			if !isSequence(key) {
				continue
			}
			first := string(key[0])
			if action, ok := registry.Match(context, first); !ok || action != ActionGoToTopPrepare {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("sequence unreachable: '%s' is not bound to %s", first, ActionGoToTopPrepare),
				})
			}
		}
	}
}

// checkShadowing checks for bindings that hide an inherited binding
func (v *Validator) checkShadowing(registry *Registry, result *ValidationResult) {
	for _, context := range registry.Contexts() {
		if context == ContextGlobal {
			continue
		}
		bindings := registry.bindings[context]
		chain := registry.chain(context)[1:]

		for _, key := range sortedKeys(bindings) {
			action := bindings[key]
			for _, ancestor := range chain {
				inherited, ok := registry.bindings[ancestor][key]
				if !ok {
					continue
				}
				if inherited != action {
					result.Warnings = append(result.Warnings, ValidationError{
						Type:    "warning",
						Context: context,
						Key:     key,
						Message: fmt.Sprintf("shadows %s binding (%s -> %s)", ancestor, inherited, action),
					})
				}
				break
			}
		}
	}
}

// namedKeys are multi-character key names that are not sequences
var namedKeys = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true,
	"enter": true, "esc": true, "tab": true, "backspace": true,
	"delete": true, "space": true,
}

// isSequence reports whether key is a two-key sequence such as "gg"
func isSequence(key string) bool {
	if len(key) != 2 || strings.Contains(key, "+") || namedKeys[key] {
		return false
	}
	return key[0] != 'f' || key[1] < '0' || key[1] > '9'
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	validator := NewValidator()
	result := validator.ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		conflicts = append(conflicts, err.Error())
	}

	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	for _, mod := range []string{"ctrl+", "alt+", "shift+", "super+"} {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if strings.ContainsAny(actionStr, " \t\n") {
		return fmt.Errorf("action cannot contain whitespace: %q", actionStr)
	}
	return nil
}
