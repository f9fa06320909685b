// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/signet/internal/adapters/config"
	_ "go.trai.ch/signet/internal/adapters/fs"
	_ "go.trai.ch/signet/internal/adapters/keys"
	_ "go.trai.ch/signet/internal/adapters/logger"
	_ "go.trai.ch/signet/internal/adapters/manifest"
	_ "go.trai.ch/signet/internal/adapters/shell"
	_ "go.trai.ch/signet/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/signet/internal/app"
)
