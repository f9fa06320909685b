package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/signet/internal/adapters/logger"
	"go.trai.ch/signet/internal/core/ports"
)

// NodeID is the unique identifier for the tool invoker Graft node.
const NodeID graft.ID = "adapter.tools"

func init() {
	graft.Register(graft.Node[ports.ToolInvoker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ToolInvoker, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInvoker(log), nil
		},
	})
}
