package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/signet/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/adapters/keys"               //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/adapters/manifest"           //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/signet/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			manifest.NodeID,
			keys.NodeID,
			fs.FileSystemNodeID,
			fs.WalkerNodeID,
			fs.ResolverNodeID,
			fs.HasherNodeID,
			shell.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var (
		deps Deps
		err  error
	)
	if deps.ConfigLoader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	if deps.Provider, err = graft.Dep[ports.MetadataProvider](ctx); err != nil {
		return nil, err
	}
	if deps.Keys, err = graft.Dep[ports.KeySource](ctx); err != nil {
		return nil, err
	}
	if deps.FileSystem, err = graft.Dep[ports.FileSystem](ctx); err != nil {
		return nil, err
	}
	if deps.Finder, err = graft.Dep[ports.ModuleFinder](ctx); err != nil {
		return nil, err
	}
	if deps.Resolver, err = graft.Dep[ports.InputResolver](ctx); err != nil {
		return nil, err
	}
	if deps.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return nil, err
	}
	if deps.Tools, err = graft.Dep[ports.ToolInvoker](ctx); err != nil {
		return nil, err
	}
	if deps.Telemetry, err = graft.Dep[ports.Telemetry](ctx); err != nil {
		return nil, err
	}
	return New(deps), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: telemetry,
	}, nil
}
