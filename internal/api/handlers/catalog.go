package handlers

import (
	"fmt"
	"net/http"

	"caiso-reports/internal/api/models"
	"caiso-reports/internal/data"
	"caiso-reports/internal/oasis"

	"github.com/gin-gonic/gin"
)

// ListQueries handles GET /api/v1/queries
func ListQueries(c *gin.Context) {
	queries := oasis.Queries()
	c.JSON(http.StatusOK, gin.H{
		"queries": queries,
		"count":   len(queries),
	})
}

// NodeHandler serves the node registry
type NodeHandler struct {
	path string
}

// NewNodeHandler creates a node handler reading the registry at path.
// An empty path selects data.GetDefaultNodesPath().
func NewNodeHandler(path string) *NodeHandler {
	if path == "" {
		path = data.GetDefaultNodesPath()
	}
	return &NodeHandler{path: path}
}

// ListNodes handles GET /api/v1/nodes
func (h *NodeHandler) ListNodes(c *gin.Context) {
	list, err := data.LoadNodesOrDefault(h.path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NODES_LOAD_ERROR",
				Message: fmt.Sprintf("Failed to load nodes: %v", err),
			},
		})
		return
	}

	nodes := make([]models.NodeInfo, len(list.Nodes))
	for i, n := range list.Nodes {
		nodes[i] = models.NodeInfo{
			ID:   n.ID,
			Name: n.Name,
			Type: n.Type,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"nodes":      nodes,
		"updated_at": list.UpdatedAt,
		"count":      len(nodes),
	})
}
