package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nodes.json")
	in := &NodeList{
		UpdatedAt: "2019-02-01T00:00:00Z",
		Nodes:     []Node{{ID: "MUSTANGS_2_B1", Name: "Mustang Solar", Type: "GEN"}},
	}
	if err := SaveNodes(in, path); err != nil {
		t.Fatalf("SaveNodes error: %v", err)
	}
	out, err := LoadNodes(path)
	if err != nil {
		t.Fatalf("LoadNodes error: %v", err)
	}
	if out.UpdatedAt != in.UpdatedAt || len(out.Nodes) != 1 || out.Nodes[0] != in.Nodes[0] {
		t.Errorf("round trip = %+v", out)
	}
	if n, ok := out.Find("MUSTANGS_2_B1"); !ok || n.Name != "Mustang Solar" {
		t.Errorf("Find = %+v, %v", n, ok)
	}
	if _, ok := out.Find("NOPE"); ok {
		t.Error("Find should miss unknown id")
	}
}

func TestLoadNodesOrDefault(t *testing.T) {
	list, err := LoadNodesOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadNodesOrDefault error: %v", err)
	}
	if len(list.Nodes) != len(DefaultNodes) {
		t.Errorf("got %d nodes, want defaults (%d)", len(list.Nodes), len(DefaultNodes))
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadNodesOrDefault(bad); err == nil {
		t.Error("expected parse error for corrupt file")
	}
}

func TestGetDefaultNodesPath(t *testing.T) {
	t.Setenv("NODES_FILE", "/tmp/custom-nodes.json")
	if got := GetDefaultNodesPath(); got != "/tmp/custom-nodes.json" {
		t.Errorf("GetDefaultNodesPath = %q", got)
	}
	t.Setenv("NODES_FILE", "")
	if got := GetDefaultNodesPath(); got != "./data/nodes.json" {
		t.Errorf("GetDefaultNodesPath = %q", got)
	}
}
