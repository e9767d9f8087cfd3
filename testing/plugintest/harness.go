package plugintest

import (
	"log/slog"
	"testing"

	"github.com/Dessix/mumble-plugin-go/application/plugin"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
)

// DefaultID is the identity the harness host assigns.
const DefaultID entities.PluginID = 42

// Harness wires a plugin to a FakeHost through a fresh registry and
// dispatcher. It shuts the plugin down and checks for leaked host memory
// when the test ends.
type Harness struct {
	Host       *FakeHost
	Registry   *plugin.Registry
	Dispatcher *plugin.Dispatcher
}

// New registers p with a new registry but does not activate it. Options are
// applied after the harness defaults, which discard log output.
func New(t testing.TB, desc entities.Descriptor, p plugin.Plugin, opts ...plugin.RegistryOption) *Harness {
	t.Helper()
	opts = append([]plugin.RegistryOption{plugin.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	reg := plugin.NewRegistry(opts...)
	reg.Register(desc, p)

	h := &Harness{
		Host:       NewFakeHost(DefaultID),
		Registry:   reg,
		Dispatcher: plugin.NewDispatcher(reg),
	}
	t.Cleanup(func() {
		if reg.State() == plugin.StateActive {
			reg.Shutdown()
		}
		AssertNoLeaks(t, h.Host)
	})
	return h
}

// Activate delivers the identity and then the API table, as the host does,
// and returns the plugin's Init status.
func (h *Harness) Activate() entities.ErrorCode {
	h.Registry.SetIdentity(h.Host.ID)
	h.Registry.SetTable(h.Host.Table())
	if h.Registry.State() == plugin.StateActive {
		return entities.OK
	}
	if c, ok := errors.CodeOf(h.Registry.Err()); ok {
		return c
	}
	return entities.ErrGeneric
}

// Run is New followed by a successful Activate.
func Run(t testing.TB, desc entities.Descriptor, p plugin.Plugin, opts ...plugin.RegistryOption) *Harness {
	t.Helper()
	h := New(t, desc, p, opts...)
	if status := h.Activate(); status != entities.OK {
		t.Fatalf("plugin %q failed to activate: %s (%v)", desc.Name, status, h.Registry.Err())
	}
	return h
}

// AssertNoLeaks fails the test if the plugin did not free everything the
// host handed out.
func AssertNoLeaks(t testing.TB, h *FakeHost) {
	t.Helper()
	if n := h.Live(); n != 0 {
		t.Errorf("plugin leaked %d host allocation(s)", n)
	}
}

// AssertLogged fails the test unless the plugin logged want through the host.
func AssertLogged(t testing.TB, h *FakeHost, want string) {
	t.Helper()
	for _, line := range h.Logs() {
		if line == want {
			return
		}
	}
	t.Errorf("host log is missing %q; got %q", want, h.Logs())
}
