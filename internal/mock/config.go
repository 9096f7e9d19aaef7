package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCluster loads cluster content from a YAML or JSON file
func LoadCluster(path string) (*Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster file: %w", err)
	}

	var cluster Cluster

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cluster); err != nil {
			return nil, fmt.Errorf("failed to parse YAML cluster: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cluster); err != nil {
			return nil, fmt.Errorf("failed to parse JSON cluster: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported cluster file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := validateCluster(&cluster); err != nil {
		return nil, fmt.Errorf("invalid cluster: %w", err)
	}

	return &cluster, nil
}

// validateCluster validates the mock cluster definition
func validateCluster(cluster *Cluster) error {
	if len(cluster.Databases) == 0 {
		return fmt.Errorf("no databases defined")
	}

	seen := make(map[string]bool)
	for i, db := range cluster.Databases {
		if db.Name == "" {
			return fmt.Errorf("database %d: name is required", i)
		}
		if seen[db.Name] {
			return fmt.Errorf("database %q defined twice", db.Name)
		}
		seen[db.Name] = true

		for j, col := range db.Collections {
			if col.Name == "" {
				return fmt.Errorf("database %q: collection %d: name is required", db.Name, j)
			}
		}
	}

	return nil
}

// DemoCluster returns the content served by the mock command when no file
// is given
func DemoCluster() *Cluster {
	return &Cluster{
		Version: "3.12.4",
		License: "community",
		GAE:     true,
		Databases: []Database{
			{
				Name: "_system",
				Collections: []Collection{
					{Name: "_users", System: true, Generate: 1},
					{Name: "_graphs", System: true},
				},
			},
			{
				Name: "shop",
				Collections: []Collection{
					{Name: "customers", Generate: 250},
					{Name: "products", Generate: 40},
					{Name: "purchased", Edge: true, Generate: 120},
					{Name: "_appbundles", System: true},
				},
				Graphs: []Graph{
					{
						Name: "sales",
						EdgeDefinitions: []EdgeDefinition{
							{Collection: "purchased", From: []string{"customers"}, To: []string{"products"}},
						},
					},
				},
				Queries: []Query{
					{
						Query: "RETURN 1",
						Rows:  []any{1},
					},
				},
			},
			{
				Name: "test",
				Collections: []Collection{
					{Name: "items", Generate: 5},
				},
			},
			{
				Name:   "restricted",
				Denied: true,
			},
		},
	}
}
