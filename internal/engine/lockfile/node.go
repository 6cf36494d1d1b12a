package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockguard/internal/adapters/bunlockb" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockguard/internal/core/ports"
)

// NodeID is the unique identifier for the parser suite Graft node.
const NodeID graft.ID = "engine.lockfile"

func init() {
	graft.Register(graft.Node[*Suite]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{bunlockb.NodeID},
		Run: func(ctx context.Context) (*Suite, error) {
			decoder, err := graft.Dep[ports.LockbDecoder](ctx)
			if err != nil {
				return nil, err
			}
			return NewSuite(decoder), nil
		},
	})
}
