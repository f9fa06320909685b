package keys

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
)

// NodeID is the graft node providing the key source.
const NodeID graft.ID = "adapter.keys"

func init() {
	graft.Register(graft.Node[ports.KeySource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.KeySource, error) {
			return NewStore(domain.DefaultKeyBits), nil
		},
	})
}
