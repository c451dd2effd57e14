package scan

// ABOUTME: Read and edit ~/.venvsweep/config.yaml by key, preserving the
// comments and formatting of the file via yaml.Node manipulation.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/venvsweep/venvsweep/internal/python"
	"github.com/venvsweep/venvsweep/internal/venv"
)

// configDefaults maps keys to the value reported when the file does not
// set them. Only scalar settings have a printable default.
var configDefaults = map[string]string{
	"probe_timeout": python.DefaultTimeout.String(),
	"workers":       "0",
	"no_color":      "false",
}

// ConfigPath returns the location of the user's config file.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".venvsweep", "config.yaml"), nil
}

// ReadConfigRaw returns the config file bytes, or nil when no file exists.
func ReadConfigRaw() ([]byte, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is ~/.venvsweep/config.yaml
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config.yaml: %w", err)
	}
	return data, nil
}

// GetConfigValue looks up a dotted key in config.yaml. Keys absent from the
// file fall back to the built-in default when one exists.
func GetConfigValue(key string) (string, bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is ~/.venvsweep/config.yaml
	if err != nil && !os.IsNotExist(err) {
		return "", false, fmt.Errorf("read config.yaml: %w", err)
	}
	if err == nil {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return "", false, venv.NewConfigError("parse %s: %v", path, err)
		}
		if node := findYAMLNode(&doc, key); node != nil {
			return renderYAMLNode(node)
		}
	}

	if def, ok := configDefaults[key]; ok {
		return def, true, nil
	}
	return "", false, nil
}

// UpdateConfigFields sets dotted keys in config.yaml using yaml.Node
// manipulation to preserve comments and formatting. The file must exist.
func UpdateConfigFields(fields map[string]string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is ~/.venvsweep/config.yaml
	if err != nil {
		return fmt.Errorf("read config.yaml: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return venv.NewConfigError("parse %s: %v", path, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("config.yaml has unexpected structure")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config.yaml root is not a mapping")
	}

	for fieldPath, value := range fields {
		setYAMLField(root, fieldPath, value)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal config.yaml: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}
	return nil
}

// DeleteConfigField removes a dotted key from config.yaml. A missing file
// or missing key is not an error; there is nothing to remove.
func DeleteConfigField(key string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is ~/.venvsweep/config.yaml
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config.yaml: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return venv.NewConfigError("parse %s: %v", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	if !deleteYAMLField(root, strings.Split(key, ".")) {
		return nil
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal config.yaml: %w", err)
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}
	return nil
}

// deleteYAMLField removes the key/value pair at the given path. Reports
// whether anything was removed.
func deleteYAMLField(node *yaml.Node, parts []string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value != parts[0] {
			continue
		}
		if len(parts) == 1 {
			node.Content = append(node.Content[:i], node.Content[i+2:]...)
			return true
		}
		return deleteYAMLField(node.Content[i+1], parts[1:])
	}
	return false
}

// findYAMLNode descends a dotted path through mapping nodes.
func findYAMLNode(doc *yaml.Node, key string) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	node := doc.Content[0]
	for _, part := range strings.Split(key, ".") {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i < len(node.Content)-1; i += 2 {
			if node.Content[i].Value == part {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// renderYAMLNode prints a scalar directly and re-marshals anything nested.
func renderYAMLNode(node *yaml.Node) (string, bool, error) {
	if node.Kind == yaml.ScalarNode {
		return node.Value, true, nil
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", false, fmt.Errorf("marshal value: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), true, nil
}

// setYAMLField sets a dotted path to a value in a yaml.Node mapping tree,
// creating intermediate mappings as needed.
func setYAMLField(root *yaml.Node, path string, value string) {
	parts := strings.Split(path, ".")
	node := root

	for _, part := range parts[:len(parts)-1] {
		node = getOrCreateMapping(node, part)
	}

	tag := scalarTag(value)
	leafKey := parts[len(parts)-1]
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == leafKey {
			node.Content[i+1].Kind = yaml.ScalarNode
			node.Content[i+1].Content = nil
			node.Content[i+1].Value = value
			node.Content[i+1].Tag = tag
			return
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: leafKey}
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag}
	node.Content = append(node.Content, keyNode, valNode)
}

// getOrCreateMapping finds or creates a mapping node under the given key.
func getOrCreateMapping(parent *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(parent.Content)-1; i += 2 {
		if parent.Content[i].Value == key && parent.Content[i+1].Kind == yaml.MappingNode {
			return parent.Content[i+1]
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	mapNode := &yaml.Node{Kind: yaml.MappingNode}
	parent.Content = append(parent.Content, keyNode, mapNode)
	return mapNode
}

// scalarTag picks the YAML tag that lets typed config fields round-trip.
// A bare "4" written as !!str would fail to load into the workers int.
func scalarTag(value string) string {
	if value == "true" || value == "false" {
		return "!!bool"
	}
	if _, err := strconv.Atoi(value); err == nil {
		return "!!int"
	}
	return "!!str"
}
