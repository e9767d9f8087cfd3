//go:build !cgo

package cabi

import (
	"log/slog"

	"github.com/Dessix/mumble-plugin-go/application/plugin"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

const noCgo = "cabi: plugins must be built with cgo enabled (CGO_ENABLED=1, -buildmode=c-shared)"

// Register panics: without cgo there are no entry points for the host.
func Register(entities.Descriptor, plugin.Plugin) {
	panic(noCgo)
}

// RegisterFactory panics: without cgo there are no entry points for the host.
func RegisterFactory(entities.Descriptor, plugin.Factory) {
	panic(noCgo)
}

// RegisterManifest panics: without cgo there are no entry points for the host.
func RegisterManifest([]byte, plugin.Plugin) error {
	panic(noCgo)
}

// SetUpdater panics: without cgo there are no entry points for the host.
func SetUpdater(plugin.Updater) {
	panic(noCgo)
}

// SetLogLevel sets the default logger's level; there is no host to log to.
func SetLogLevel(level slog.Level) {
	slog.SetLogLoggerLevel(level)
}

// Logger returns the default logger.
func Logger() *slog.Logger {
	return slog.Default()
}
