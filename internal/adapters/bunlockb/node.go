package bunlockb

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockguard/internal/adapters/shell"
	"go.trai.ch/lockguard/internal/core/ports"
)

// NodeID is the unique identifier for the bun.lockb decoder Graft node.
const NodeID graft.ID = "adapter.bunlockb"

func init() {
	graft.Register(graft.Node[ports.LockbDecoder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.LockbDecoder, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewDecoder(runner, ""), nil
		},
	})
}
