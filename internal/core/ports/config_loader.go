package ports

import "go.trai.ch/signet/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers signet.yaml by walking up from cwd and returns the settings.
	// A missing file yields default settings.
	Load(cwd string) (*domain.Settings, error)
}
