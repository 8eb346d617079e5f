package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator produces time-ordered ids used to correlate matching runs in logs.
type Generator struct {
	node *snowflake.Node
}

func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

func (g *Generator) Next() string {
	return g.node.Generate().String()
}
