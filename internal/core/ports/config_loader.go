package ports

import "go.trai.ch/lockguard/internal/core/domain"

// ConfigLoader defines the interface for loading the audit configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration that applies to dir.
	// A missing config file yields the default configuration.
	Load(dir string) (*domain.Config, error)
}
