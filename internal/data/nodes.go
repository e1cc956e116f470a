package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Node is an OASIS pricing node (PNode or APNode).
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // e.g., "GEN", "LOAD", "APNODE"
}

// NodeList is the on-disk node registry.
type NodeList struct {
	UpdatedAt string `json:"updated_at"` // ISO 8601 timestamp
	Nodes     []Node `json:"nodes"`
}

// DefaultNodes seeds the registry when no file exists.
var DefaultNodes = []Node{
	{ID: "MUSTANGS_2_B1", Name: "Mustang Solar", Type: "GEN"},
	{ID: "LAPLMG1_7_B2", Name: "La Paloma", Type: "GEN"},
	{ID: "TH_NP15_GEN-APND", Name: "NP15 Trading Hub", Type: "APNODE"},
	{ID: "TH_SP15_GEN-APND", Name: "SP15 Trading Hub", Type: "APNODE"},
	{ID: "TH_ZP26_GEN-APND", Name: "ZP26 Trading Hub", Type: "APNODE"},
}

// LoadNodes loads the node registry from a JSON file
func LoadNodes(filePath string) (*NodeList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read nodes file: %w", err)
	}

	var list NodeList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse nodes file: %w", err)
	}

	return &list, nil
}

// SaveNodes saves the node registry to a JSON file
func SaveNodes(list *NodeList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal nodes: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write nodes file: %w", err)
	}

	return nil
}

// LoadNodesOrDefault loads the registry, falling back to DefaultNodes when
// the file does not exist.
func LoadNodesOrDefault(filePath string) (*NodeList, error) {
	list, err := LoadNodes(filePath)
	if err == nil {
		return list, nil
	}
	if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
		return &NodeList{Nodes: append([]Node(nil), DefaultNodes...)}, nil
	}
	return nil, err
}

// Find returns the node with the given id.
func (l *NodeList) Find(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// GetDefaultNodesPath returns the default path for the nodes file
func GetDefaultNodesPath() string {
	if path := os.Getenv("NODES_FILE"); path != "" {
		return path
	}
	return "./data/nodes.json"
}
