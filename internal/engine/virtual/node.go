package virtual

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockguard/internal/adapters/logger"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockguard/internal/adapters/npmregistry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockguard/internal/core/ports"
)

// NodeID is the unique identifier for the virtual resolver Graft node.
const NodeID graft.ID = "engine.virtual"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{npmregistry.GraphNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			builder, err := graft.Dep[ports.GraphBuilder](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(builder, log), nil
		},
	})
}
