package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator produces unique 64-bit IDs. The auth manager uses them to
// correlate log lines belonging to one callback.
type Generator interface {
	GenerateID() int64
}

// SnowflakeGenerator implements Generator with Twitter snowflake IDs,
// so IDs sort roughly by creation time.
type SnowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflakeGenerator builds a generator for one server instance.
// nodeID (0-1023) must be unique across instances to prevent
// collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{
		node: node,
	}, nil
}

func (g *SnowflakeGenerator) GenerateID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.node.Generate().Int64()
}
