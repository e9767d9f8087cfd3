//go:build cgo

package cabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dessix/mumble-plugin-go/application/api"
	"github.com/Dessix/mumble-plugin-go/application/plugin"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
)

var greeterDescriptor = entities.Descriptor{
	Name:        "Greeter",
	Author:      "cabi tests",
	Description: "says hello",
	Version:     entities.Version{Major: 1, Minor: 2, Patch: 3},
	Features:    entities.FeatureAudio,
}

type greeter struct {
	plugin.NoopHooks

	host   *api.API
	greet  []string
	errs   []error
	mutate bool
}

func (g *greeter) Init(host *api.API) error {
	g.host = host
	return nil
}

func (g *greeter) Shutdown() {}

func (g *greeter) OnServerSynchronized(conn entities.ConnectionID) {
	me, err := g.host.LocalUserID(conn)
	if err != nil {
		g.errs = append(g.errs, err)
		return
	}
	name, err := g.host.UserName(conn, me)
	if err != nil {
		g.errs = append(g.errs, err)
		return
	}
	g.greet = append(g.greet, name)
}

func (g *greeter) OnChannelEntered(conn entities.ConnectionID, user entities.UserID, _, current entities.Optional[entities.ChannelID]) {
	ch, ok := current.Get()
	if !ok {
		return
	}
	name, err := g.host.ChannelName(conn, ch)
	if err != nil {
		g.errs = append(g.errs, err)
		return
	}
	g.greet = append(g.greet, name)
}

func (g *greeter) OnAudioInput(pcm []int16, _ uint32, _ uint16, _ uint32, _ bool) bool {
	if !g.mutate {
		return false
	}
	for i := range pcm {
		pcm[i] /= 2
	}
	return true
}

type fixedUpdater string

func (u fixedUpdater) HasUpdate() bool           { return true }
func (u fixedUpdater) UpdateDownloadURL() string { return string(u) }

// newRuntime gives each test fresh process state and a fresh C host, and
// checks at the end that every host allocation was freed.
func newRuntime(t *testing.T) cHost {
	t.Helper()
	logHandler.Detach()
	installRuntime()
	h := newCHost()
	t.Cleanup(func() {
		if registry.State() == plugin.StateActive {
			h.shutdown()
		}
		assert.Zero(t, h.live(), "host allocations not freed")
		assert.Zero(t, resources.Len(), "metadata buffers not released")
		resources.Close()
	})
	return h
}

func TestTable_PointerOutputsCrossTheBoundary(t *testing.T) {
	h := newRuntime(t)
	a := api.New(7, h.table())

	name, err := a.UserName(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Equal(t, entities.PluginID(7), h.lastCaller())

	channel, err := a.ChannelName(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Root", channel)

	hash, err := a.ServerHash(1)
	require.NoError(t, err)
	assert.Equal(t, "server-hash", hash)

	comment, err := a.UserComment(1, 2)
	require.NoError(t, err)
	assert.Empty(t, comment)

	desc, err := a.ChannelDescription(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "the root channel", desc)

	users, err := a.AllUsers(1)
	require.NoError(t, err)
	assert.Equal(t, []entities.UserID{1, 2}, users)

	inRoot, err := a.UsersInChannel(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []entities.UserID{1, 2}, inRoot)

	channels, err := a.AllChannels(1)
	require.NoError(t, err)
	assert.Equal(t, []entities.ChannelID{0}, channels)

	assert.Equal(t, 8, h.frees())
	assert.Zero(t, h.live())
}

func TestTable_ErrorsAndLookups(t *testing.T) {
	h := newRuntime(t)
	a := api.New(7, h.table())

	_, err := a.UserName(1, 99)
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, entities.ErrUserNotFound, code)

	_, err = a.UsersInChannel(1, 5)
	code, _ = errors.CodeOf(err)
	assert.Equal(t, entities.ErrChannelNotFound, code)

	id, found, err := a.FindUserByName(1, "bob")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entities.UserID(2), id)

	_, found, err = a.FindUserByName(1, "carol")
	require.NoError(t, err)
	assert.False(t, found)

	ch, found, err := a.FindChannelByName(1, "Root")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entities.ChannelID(0), ch)

	muted, err := a.IsUserLocallyMuted(1, 2)
	require.NoError(t, err)
	assert.True(t, muted)

	err = a.RequestLocalMute(1, 1, true)
	code, _ = errors.CodeOf(err)
	assert.Equal(t, entities.ErrInvalidMuteTarget, code)

	assert.Error(t, a.PlaySample(""))
	assert.Zero(t, h.frees(), "failed and value calls allocate nothing")
}

func TestTable_SendDataAndLog(t *testing.T) {
	h := newRuntime(t)
	a := api.New(7, h.table())

	require.NoError(t, a.SendData(1, []entities.UserID{1, 2}, []byte("ping"), "greeter/ping"))
	users, n, dataID := h.lastSent()
	assert.Equal(t, 2, users)
	assert.Equal(t, 4, n)
	assert.Equal(t, "greeter/ping", dataID)

	require.NoError(t, a.Log("hello host"))
	assert.Equal(t, "hello host", h.lastLog())
}

func TestTable_IncompleteStructRejected(t *testing.T) {
	h := newRuntime(t).withoutLog()
	assert.Panics(t, func() { api.New(7, h.table()) })
}

func TestExports_ActivationOrder(t *testing.T) {
	t.Run("identity then table", func(t *testing.T) {
		h := newRuntime(t)
		g := &greeter{}
		Register(greeterDescriptor, g)

		assert.Equal(t, entities.OK, h.init(7))
		assert.Equal(t, plugin.StateIdentityKnown, registry.State())
		assert.Nil(t, g.host)

		h.registerAPI()
		assert.Equal(t, plugin.StateActive, registry.State())
		require.NotNil(t, g.host)
		assert.Equal(t, entities.PluginID(7), g.host.ID())

		h.serverSynchronized(1)
		assert.Empty(t, g.errs)
		assert.Equal(t, []string{"alice"}, g.greet)
	})

	t.Run("table then identity", func(t *testing.T) {
		h := newRuntime(t)
		g := &greeter{}
		Register(greeterDescriptor, g)

		h.registerAPI()
		assert.Equal(t, plugin.StateTableKnown, registry.State())
		assert.Nil(t, g.host)

		assert.Equal(t, entities.OK, h.init(9))
		assert.Equal(t, plugin.StateActive, registry.State())

		h.channelEntered(1, 1, -1, 0)
		h.channelEntered(1, 1, 0, -1)
		assert.Empty(t, g.errs)
		assert.Equal(t, []string{"Root"}, g.greet)
		assert.Equal(t, entities.PluginID(9), h.lastCaller())
	})
}

func TestExports_NullAPIStructIgnored(t *testing.T) {
	h := newRuntime(t)
	Register(greeterDescriptor, &greeter{})

	h.registerNullAPI()
	assert.Equal(t, plugin.StateEmpty, registry.State())
	assert.Equal(t, entities.OK, h.init(7))
	assert.Equal(t, plugin.StateIdentityKnown, registry.State())
}

func TestExports_Metadata(t *testing.T) {
	h := newRuntime(t)
	Register(greeterDescriptor, &greeter{})

	name, released := h.name()
	assert.Equal(t, "Greeter", name)
	assert.True(t, released)

	author, _ := h.author()
	assert.Equal(t, "cabi tests", author)

	assert.Equal(t, entities.Version{Major: 1, Minor: 2, Patch: 3}, h.version())
	assert.Equal(t, entities.FeatureAudio, h.features())
	assert.Zero(t, resources.Len())

	assert.NotPanics(t, h.releaseUnknown)
}

func TestExports_HostLogging(t *testing.T) {
	h := newRuntime(t)
	Register(greeterDescriptor, &greeter{})
	h.registerAPI()
	require.Equal(t, entities.OK, h.init(7))

	before := h.logs()
	Logger().Info("from the plugin", "user", "alice")
	assert.Equal(t, before+1, h.logs())
	assert.Contains(t, h.lastLog(), "from the plugin")
	assert.Contains(t, h.lastLog(), "user=alice")

	h.shutdown()
	after := h.logs()
	Logger().Info("after shutdown")
	assert.Equal(t, after, h.logs(), "detached logger must not reach the host")
}

func TestExports_AudioInput(t *testing.T) {
	h := newRuntime(t)
	g := &greeter{}
	Register(greeterDescriptor, g)
	h.registerAPI()
	require.Equal(t, entities.OK, h.init(7))

	in := []int16{100, -100, 40, 8}
	out, changed := h.audioInput(in, 2)
	assert.False(t, changed)
	assert.Equal(t, in, out)

	g.mutate = true
	out, changed = h.audioInput(in, 2)
	assert.True(t, changed)
	assert.Equal(t, []int16{50, -50, 20, 4}, out)
}

func TestExports_UpdateURL(t *testing.T) {
	h := newRuntime(t)
	Register(greeterDescriptor, &greeter{})

	url, fit := h.updateURL(32)
	assert.True(t, fit)
	assert.Empty(t, url)

	SetUpdater(fixedUpdater("https://example.org/greeter.mumble_plugin"))
	url, fit = h.updateURL(16)
	assert.False(t, fit)
	assert.Equal(t, "https://example", url)

	url, fit = h.updateURL(64)
	assert.True(t, fit)
	assert.Equal(t, "https://example.org/greeter.mumble_plugin", url)
}
