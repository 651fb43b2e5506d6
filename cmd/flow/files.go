package main

import (
	"fmt"
	"os"

	"github.com/meikuraledutech/flow"
	"gopkg.in/yaml.v3"
)

// loadYAML decodes a YAML (or JSON) file into v.
func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadNodes reads a list of nodes with their output data. An empty path means no nodes.
func loadNodes(path string) ([]flow.Node, error) {
	if path == "" {
		return nil, nil
	}
	var nodes []flow.Node
	if err := loadYAML(path, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
