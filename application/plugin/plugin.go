// Package plugin holds the plugin-facing contract and the machinery that
// drives it: the process registry with its lifecycle state machine and the
// dispatcher that turns raw host callbacks into typed hook calls.
package plugin

import (
	"github.com/Dessix/mumble-plugin-go/application/api"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

// Version is the SDK version reported in logs and manifests.
const Version = "0.3.0"

// Plugin is the interface every Mumble plugin must implement. Embed NoopHooks
// to get empty implementations of every event hook; Init and Shutdown have no
// default.
type Plugin interface {
	// Init receives the API handle once the host delivered both the plugin
	// identity and the function table. It runs exactly once, before any hook.
	// Init and the hooks run under the registry lock: from them, only the
	// registry's Descriptor, State, Updater and SetUpdater may be called.
	Init(host *api.API) error
	// Shutdown runs exactly once when the host unloads the plugin.
	Shutdown()

	Hooks
}

// Hooks are the host events a plugin can observe. Channel handles arrive
// already translated: the host's "no channel" sentinel becomes an empty
// Optional.
type Hooks interface {
	OnServerConnected(conn entities.ConnectionID)
	OnServerDisconnected(conn entities.ConnectionID)
	OnServerSynchronized(conn entities.ConnectionID)

	OnChannelEntered(conn entities.ConnectionID, user entities.UserID, previous, current entities.Optional[entities.ChannelID])
	OnChannelExited(conn entities.ConnectionID, user entities.UserID, channel entities.Optional[entities.ChannelID])
	OnUserTalkingStateChanged(conn entities.ConnectionID, user entities.UserID, state entities.TalkingState)

	// Audio hooks get a view of the host's interleaved sample buffer
	// (sampleCount * channelCount samples) and return true if they changed it.
	OnAudioInput(pcm []int16, sampleCount uint32, channelCount uint16, sampleRate uint32, isSpeech bool) bool
	OnAudioSourceFetched(pcm []float32, sampleCount uint32, channelCount uint16, sampleRate uint32, isSpeech bool, speaker entities.Optional[entities.UserID]) bool
	OnAudioOutputAboutToPlay(pcm []float32, sampleCount uint32, channelCount uint16, sampleRate uint32) bool

	// OnReceiveData returns true if the plugin consumed the data. decode is
	// only valid for the duration of the call.
	OnReceiveData(conn entities.ConnectionID, sender entities.UserID, dataID string, decode DataDecoder) bool

	OnUserAdded(conn entities.ConnectionID, user entities.UserID)
	OnUserRemoved(conn entities.ConnectionID, user entities.UserID)
	OnChannelAdded(conn entities.ConnectionID, channel entities.Optional[entities.ChannelID])
	OnChannelRemoved(conn entities.ConnectionID, channel entities.Optional[entities.ChannelID])
	OnChannelRenamed(conn entities.ConnectionID, channel entities.Optional[entities.ChannelID])

	OnKeyEvent(key entities.KeyCode, pressed bool)
}

// DataDecoder decodes a received payload as text on demand.
type DataDecoder func() (string, error)

// Factory builds the plugin at activation time. It runs while the registry
// lock is held and must not call back into the registry.
type Factory func() (Plugin, error)

// Updater is the optional update-check capability, registered next to the
// plugin with Registry.SetUpdater.
type Updater interface {
	HasUpdate() bool
	UpdateDownloadURL() string
}

// HostInfoReceiver is implemented by plugins that want the host's version info.
type HostInfoReceiver interface {
	SetHostInfo(info entities.HostInfo)
}

// FeatureDeactivator is implemented by plugins that can turn features off when
// the host asks. It returns the features that stay active.
type FeatureDeactivator interface {
	DeactivateFeatures(features entities.Features) entities.Features
}

// NoopHooks implements Hooks with empty bodies.
type NoopHooks struct{}

func (NoopHooks) OnServerConnected(entities.ConnectionID)    {}
func (NoopHooks) OnServerDisconnected(entities.ConnectionID) {}
func (NoopHooks) OnServerSynchronized(entities.ConnectionID) {}
func (NoopHooks) OnChannelEntered(entities.ConnectionID, entities.UserID, entities.Optional[entities.ChannelID], entities.Optional[entities.ChannelID]) {
}
func (NoopHooks) OnChannelExited(entities.ConnectionID, entities.UserID, entities.Optional[entities.ChannelID]) {
}
func (NoopHooks) OnUserTalkingStateChanged(entities.ConnectionID, entities.UserID, entities.TalkingState) {
}
func (NoopHooks) OnAudioInput([]int16, uint32, uint16, uint32, bool) bool { return false }
func (NoopHooks) OnAudioSourceFetched([]float32, uint32, uint16, uint32, bool, entities.Optional[entities.UserID]) bool {
	return false
}
func (NoopHooks) OnAudioOutputAboutToPlay([]float32, uint32, uint16, uint32) bool { return false }
func (NoopHooks) OnReceiveData(entities.ConnectionID, entities.UserID, string, DataDecoder) bool {
	return false
}
func (NoopHooks) OnUserAdded(entities.ConnectionID, entities.UserID)                            {}
func (NoopHooks) OnUserRemoved(entities.ConnectionID, entities.UserID)                          {}
func (NoopHooks) OnChannelAdded(entities.ConnectionID, entities.Optional[entities.ChannelID])   {}
func (NoopHooks) OnChannelRemoved(entities.ConnectionID, entities.Optional[entities.ChannelID]) {}
func (NoopHooks) OnChannelRenamed(entities.ConnectionID, entities.Optional[entities.ChannelID]) {}
func (NoopHooks) OnKeyEvent(entities.KeyCode, bool)                                             {}
