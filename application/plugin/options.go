package plugin

import (
	"log/slog"
	"sync"

	"github.com/Dessix/mumble-plugin-go/application/api"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	locker     sync.Locker
	logger     *slog.Logger
	onActivate []func(*api.API)
	onShutdown []func()
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		locker: &sync.Mutex{},
		logger: slog.Default(),
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithLocker replaces the mutex guarding the registry.
func WithLocker(l sync.Locker) RegistryOption {
	return func(c *registryConfig) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(c *registryConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// OnActivate registers fn to run right after the plugin's Init succeeded.
// It runs with the registry lock held and must not call the registry.
func OnActivate(fn func(*api.API)) RegistryOption {
	return func(c *registryConfig) {
		c.onActivate = append(c.onActivate, fn)
	}
}

// OnShutdown registers fn to run after the plugin's Shutdown returned, with
// the registry lock held.
func OnShutdown(fn func()) RegistryOption {
	return func(c *registryConfig) {
		c.onShutdown = append(c.onShutdown, fn)
	}
}
