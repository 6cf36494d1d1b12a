package npmregistry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockguard/internal/adapters/fs"
	"go.trai.ch/lockguard/internal/adapters/httpfetch"
	"go.trai.ch/lockguard/internal/adapters/logger"
	"go.trai.ch/lockguard/internal/core/ports"
)

const (
	// ClientNodeID is the unique identifier for the registry client Graft node.
	ClientNodeID graft.ID = "adapter.npmregistry.client"
	// FetcherNodeID is the unique identifier for the manifest fetcher Graft node.
	FetcherNodeID graft.ID = "adapter.npmregistry.fetcher"
	// GraphNodeID is the unique identifier for the graph builder Graft node.
	GraphNodeID graft.ID = "adapter.npmregistry.graph"
)

func init() {
	graft.Register(graft.Node[*Client]{
		ID:        ClientNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{httpfetch.NodeID},
		Run: func(ctx context.Context) (*Client, error) {
			http, err := graft.Dep[*httpfetch.Client](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(http), nil
		},
	})

	graft.Register(graft.Node[ports.ManifestFetcher]{
		ID:        FetcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ClientNodeID},
		Run: func(ctx context.Context) (ports.ManifestFetcher, error) {
			client, err := graft.Dep[*Client](ctx)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	})

	graft.Register(graft.Node[ports.GraphBuilder]{
		ID:        GraphNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ClientNodeID, fs.WorkspaceNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.GraphBuilder, error) {
			client, err := graft.Dep[*Client](ctx)
			if err != nil {
				return nil, err
			}
			ws, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewGraphBuilder(client, ws, log), nil
		},
	})
}
