package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockguard/internal/adapters/cas"         //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/adapters/fs"          //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/adapters/httpfetch"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/adapters/npmregistry" //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lockguard/internal/core/ports"
	"go.trai.ch/lockguard/internal/engine/lockfile"
	"go.trai.ch/lockguard/internal/engine/virtual"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.WorkspaceNodeID,
			lockfile.NodeID,
			virtual.NodeID,
			npmregistry.FetcherNodeID,
			httpfetch.NodeID,
			cas.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			logger.ConcreteNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			concrete, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log, LogControl: concrete}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	workspace, err := graft.Dep[ports.Workspace](ctx)
	if err != nil {
		return nil, err
	}
	suite, err := graft.Dep[*lockfile.Suite](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[*virtual.Resolver](ctx)
	if err != nil {
		return nil, err
	}
	manifests, err := graft.Dep[ports.ManifestFetcher](ctx)
	if err != nil {
		return nil, err
	}
	artifacts, err := graft.Dep[*httpfetch.Client](ctx)
	if err != nil {
		return nil, err
	}
	caches, err := graft.Dep[ports.CacheOpener](ctx)
	if err != nil {
		return nil, err
	}
	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, workspace, suite, resolver, manifests, artifacts, caches, tel, log), nil
}
