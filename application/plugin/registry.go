package plugin

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Dessix/mumble-plugin-go/application/api"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

// State is the registry's lifecycle phase.
type State uint8

const (
	StateEmpty State = iota
	StateIdentityKnown
	StateTableKnown
	StateActive
	StateShutDown
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateIdentityKnown:
		return "identity_known"
	case StateTableKnown:
		return "table_known"
	case StateActive:
		return "active"
	case StateShutDown:
		return "shut_down"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Registry holds the single plugin of the process and sequences its
// lifecycle. The identity token and the API table arrive independently and in
// either order; whichever completes the pair activates the plugin. Hooks may
// only be dispatched while the registry is Active.
//
// Init and every hook run with mu held. Descriptor, State, Updater and
// SetUpdater do not take mu and are safe to call from them.
type Registry struct {
	mu     sync.Locker
	logger *slog.Logger
	cfg    registryConfig

	// state is written under mu and read without it.
	state atomic.Uint32
	id    entities.PluginID
	hasID bool
	table *abi.Table

	factory Factory
	plugin  Plugin
	api     *api.API
	info    *entities.HostInfo
	err     error

	// meta guards the registration metadata and the updater, which are
	// independent of the lifecycle.
	meta       sync.RWMutex
	registered bool
	desc       entities.Descriptor
	updater    Updater
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{
		mu:     cfg.locker,
		logger: cfg.logger,
		cfg:    cfg,
	}
}

// Register installs p as the process's plugin.
func (r *Registry) Register(desc entities.Descriptor, p Plugin) {
	r.RegisterFactory(desc, func() (Plugin, error) { return p, nil })
}

// RegisterFactory installs a plugin that is built lazily on activation. A
// second registration is a contract violation and panics.
func (r *Registry) RegisterFactory(desc entities.Descriptor, factory Factory) {
	if factory == nil {
		panic("plugin: nil factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.factory != nil {
		errors.Violation("single-plugin", "plugin %q already registered, refusing %q", r.desc.Name, desc.Name)
	}
	r.meta.Lock()
	r.desc = desc.WithDefaults()
	r.registered = true
	r.meta.Unlock()
	r.factory = factory
	r.logger.Debug("plugin: registered", "name", r.desc.Name, "version", r.desc.Version.String(), "sdk_version", Version)
}

// SetUpdater installs the optional update-check capability.
func (r *Registry) SetUpdater(u Updater) {
	r.meta.Lock()
	defer r.meta.Unlock()
	r.updater = u
}

// Updater returns the installed update check, or nil.
func (r *Registry) Updater() Updater {
	r.meta.RLock()
	defer r.meta.RUnlock()
	return r.updater
}

// Descriptor returns the registered plugin's metadata.
func (r *Registry) Descriptor() entities.Descriptor {
	r.meta.RLock()
	defer r.meta.RUnlock()
	if !r.registered {
		errors.Violation("no-plugin", "descriptor requested before any plugin was registered")
	}
	return r.desc
}

// State returns the current lifecycle phase.
func (r *Registry) State() State {
	return State(r.state.Load())
}

func (r *Registry) setState(s State) {
	r.state.Store(uint32(s))
}

// Err returns the activation error that moved the registry to ShutDown, if any.
func (r *Registry) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// SetIdentity records the identity token the host assigned. If the table is
// already known this activates the plugin and returns its Init status; the
// identity may only be delivered once per process.
func (r *Registry) SetIdentity(id entities.PluginID) entities.ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasID {
		errors.Violation("identity-once", "identity delivered twice (have %d, got %d) in state %s", r.id, id, r.State())
	}
	r.id, r.hasID = id, true
	if r.table == nil {
		r.setState(StateIdentityKnown)
		r.logger.Debug("plugin: identity received, waiting for API table", "plugin_id", id)
		return entities.OK
	}
	return r.activateLocked()
}

// SetTable records the host API table. If the identity is already known this
// activates the plugin. A table delivered after activation is ignored.
func (r *Registry) SetTable(t abi.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.State() {
	case StateActive, StateShutDown:
		r.logger.Warn("plugin: API table delivered after activation, ignoring", "state", r.State().String())
		return
	}
	if r.table != nil {
		r.logger.Warn("plugin: API table delivered twice before activation, replacing")
	}
	r.table = &t
	if !r.hasID {
		r.setState(StateTableKnown)
		r.logger.Debug("plugin: API table received, waiting for identity")
		return
	}
	if status := r.activateLocked(); status != entities.OK {
		r.logger.Error("plugin: activation after API table delivery failed", "status", status.String())
	}
}

// SetHostInfo records what the host reported about itself and forwards it to
// the plugin when it implements HostInfoReceiver.
func (r *Registry) SetHostInfo(info entities.HostInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.info = &info
	if r.State() == StateActive {
		r.deliverHostInfoLocked()
	}
}

// HostInfo returns the host info, if the host sent it.
func (r *Registry) HostInfo() (entities.HostInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info == nil {
		return entities.HostInfo{}, false
	}
	return *r.info, true
}

func (r *Registry) activateLocked() entities.ErrorCode {
	r.requireRegisteredLocked("activation")

	handle := api.New(r.id, *r.table)
	p, err := r.factory()
	if err == nil && p == nil {
		err = fmt.Errorf("factory for %q returned no plugin", r.desc.Name)
	}
	if err == nil {
		err = p.Init(handle)
	}
	if err != nil {
		r.setState(StateShutDown)
		r.err = err
		r.logger.Error("plugin: init failed", "name", r.desc.Name, "plugin_id", r.id, "error", err)
		if code, ok := errors.CodeOf(err); ok {
			return code
		}
		return entities.ErrGeneric
	}

	r.plugin = p
	r.api = handle
	r.setState(StateActive)
	if r.info != nil {
		r.deliverHostInfoLocked()
	}
	for _, fn := range r.cfg.onActivate {
		fn(handle)
	}
	r.logger.Info("plugin: active", "name", r.desc.Name, "plugin_id", r.id)
	return entities.OK
}

func (r *Registry) deliverHostInfoLocked() {
	if recv, ok := r.plugin.(HostInfoReceiver); ok {
		recv.SetHostInfo(*r.info)
	}
}

func (r *Registry) requireRegisteredLocked(what string) {
	if r.factory == nil {
		errors.Violation("no-plugin", "%s requested before any plugin was registered", what)
	}
}

// Shutdown runs the plugin's Shutdown hook. The registry is terminal
// afterwards; shutting down a registry that is not Active only logs.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State() != StateActive {
		r.logger.Warn("plugin: cannot shut down non-running plugin", "state", r.State().String())
		return
	}
	r.logger.Info("plugin: shutting down", "name", r.desc.Name)
	r.plugin.Shutdown()
	r.setState(StateShutDown)
	r.plugin = nil
	r.api = nil
	for _, fn := range r.cfg.onShutdown {
		fn()
	}
	r.logger.Info("plugin: shut down", "name", r.desc.Name)
}

// Do runs fn with the active plugin while holding the registry lock. Any call
// before activation or after shutdown means the host broke the call order and
// panics with a contract violation.
func (r *Registry) Do(hook string, fn func(Plugin)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requireActiveLocked(hook)
	fn(r.plugin)
}

func (r *Registry) requireActiveLocked(hook string) {
	if r.State() != StateActive {
		errors.Violation("hook-before-active", "%s delivered in state %s", hook, r.State())
	}
}

// with is Do for hooks that return a value.
func with[T any](r *Registry, hook string, fn func(Plugin) T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requireActiveLocked(hook)
	return fn(r.plugin)
}
