//go:build cgo

package cabi

import (
	"fmt"
	"log/slog"

	"github.com/Dessix/mumble-plugin-go/application/api"
	"github.com/Dessix/mumble-plugin-go/application/manifest"
	"github.com/Dessix/mumble-plugin-go/application/plugin"
	"github.com/Dessix/mumble-plugin-go/application/resource"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/log"
)

var (
	logLevel   = new(slog.LevelVar)
	logHandler = log.NewHandler(log.WithLevel(logLevel))
	logger     = slog.New(logHandler)

	resources  *resource.Table
	registry   *plugin.Registry
	dispatcher *plugin.Dispatcher
)

func init() {
	slog.SetDefault(logger)
	installRuntime()
}

// installRuntime creates the process state the exported entry points share.
func installRuntime() {
	resources = resource.NewTable(logger)
	registry = plugin.NewRegistry(
		plugin.WithLogger(logger),
		plugin.OnActivate(func(a *api.API) { logHandler.Attach(a) }),
		plugin.OnShutdown(logHandler.Detach),
	)
	dispatcher = plugin.NewDispatcher(registry)
}

// Register installs p as the plugin this library exposes. Call it from an
// init function of the main package.
func Register(desc entities.Descriptor, p plugin.Plugin) {
	registry.Register(desc, p)
	logHandler.SetPrefix(desc.Name)
}

// RegisterFactory installs a plugin built when the host activates it.
func RegisterFactory(desc entities.Descriptor, factory plugin.Factory) {
	registry.RegisterFactory(desc, factory)
	logHandler.SetPrefix(desc.Name)
}

// RegisterManifest registers p with the descriptor read from a plugin.yaml
// document, typically embedded with go:embed.
func RegisterManifest(data []byte, p plugin.Plugin) error {
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}
	desc, err := m.Descriptor()
	if err != nil {
		return fmt.Errorf("plugin %q: %w", m.Name, err)
	}
	Register(desc, p)
	return nil
}

// SetUpdater installs the update check the host polls.
func SetUpdater(u plugin.Updater) {
	registry.SetUpdater(u)
}

// SetLogLevel changes the minimum level of the library logger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// Logger returns the library logger. Records reach the host console once the
// plugin is active and stderr before that.
func Logger() *slog.Logger {
	return logger
}
