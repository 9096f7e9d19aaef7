package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each section maps a key to an action name.
type Config struct {
	Version     string                       `json:"version"`
	Global      map[string]string            `json:"global,omitempty"`
	Viewer      map[string]string            `json:"viewer,omitempty"`
	Menu        map[string]string            `json:"menu,omitempty"`
	Databases   map[string]string            `json:"databases,omitempty"`
	Collections map[string]string            `json:"collections,omitempty"`
	Properties  map[string]string            `json:"properties,omitempty"`
	Documents   map[string]string            `json:"documents,omitempty"`
	Query       map[string]string            `json:"query,omitempty"`
	QueryEditor map[string]string            `json:"query_editor,omitempty"`
	Graphs      map[string]string            `json:"graphs,omitempty"`
	Graph       map[string]string            `json:"graph,omitempty"`
	TextInput   map[string]string            `json:"text_input,omitempty"`
	Help        map[string]string            `json:"help,omitempty"`
	Custom      map[string]map[string]string `json:"custom,omitempty"`
}

// sections maps config sections to contexts
func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:      c.Global,
		ContextViewer:      c.Viewer,
		ContextMenu:        c.Menu,
		ContextDatabases:   c.Databases,
		ContextCollections: c.Collections,
		ContextProperties:  c.Properties,
		ContextDocuments:   c.Documents,
		ContextQuery:       c.Query,
		ContextQueryEditor: c.QueryEditor,
		ContextGraphs:      c.Graphs,
		ContextGraph:       c.Graph,
		ContextTextInput:   c.TextInput,
		ContextHelp:        c.Help,
	}
}

// LoadConfig loads keybinding configuration from a JSON file.
// Comments and trailing commas are accepted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// LoadConfigFromDir loads keybinds.json from a directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, "keybinds.json"))
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings; an empty action unbinds the key.
func ApplyConfig(registry *Registry, config *Config) error {
	apply := func(context Context, bindings map[string]string) error {
		for key, actionStr := range bindings {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("context '%s': %w", context, err)
			}
			if actionStr == "" {
				registry.Unregister(context, key)
				continue
			}
			registry.Register(context, key, Action(actionStr))
		}
		return nil
	}

	for context, bindings := range config.sections() {
		if err := apply(context, bindings); err != nil {
			return err
		}
	}

	for contextName, bindings := range config.Custom {
		if err := apply(Context(contextName), bindings); err != nil {
			return err
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults exports every default binding as a config
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	sections := map[Context]*map[string]string{
		ContextGlobal:      &config.Global,
		ContextViewer:      &config.Viewer,
		ContextMenu:        &config.Menu,
		ContextDatabases:   &config.Databases,
		ContextCollections: &config.Collections,
		ContextProperties:  &config.Properties,
		ContextDocuments:   &config.Documents,
		ContextQuery:       &config.Query,
		ContextQueryEditor: &config.QueryEditor,
		ContextGraphs:      &config.Graphs,
		ContextGraph:       &config.Graph,
		ContextTextInput:   &config.TextInput,
		ContextHelp:        &config.Help,
	}

	for context, bindings := range registry.bindings {
		section, ok := sections[context]
		if !ok {
			continue
		}
		*section = make(map[string]string, len(bindings))
		for key, action := range bindings {
			(*section)[key] = string(action)
		}
	}

	return config
}

// GetDefaultConfigPath returns the default path for keybinds.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".arangotui", "keybinds.json"), nil
}

// CreateExampleConfig writes the default bindings to path
func CreateExampleConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return SaveConfig(ExportDefaults(), path)
}
