package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/signet/internal/core/ports"
)

// NodeID is the graft node providing the metadata provider.
const NodeID graft.ID = "adapter.manifest"

func init() {
	graft.Register(graft.Node[ports.MetadataProvider]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MetadataProvider, error) {
			return NewProvider(), nil
		},
	})
}
