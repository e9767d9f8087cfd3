package plugin_test

import (
	"github.com/Dessix/mumble-plugin-go/application/api"
	"github.com/Dessix/mumble-plugin-go/application/plugin"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

var testDescriptor = entities.Descriptor{
	Name:        "recorder",
	Author:      "tests",
	Description: "records every hook",
	Features:    entities.FeatureAudio,
}

type channelEvent struct {
	hook     string
	previous entities.Optional[entities.ChannelID]
	channel  entities.Optional[entities.ChannelID]
}

// recorder is a plugin that remembers what the host told it.
type recorder struct {
	plugin.NoopHooks

	initErr   error
	host      *api.API
	inits     int
	shutdowns int
	events    []string
	channels  []channelEvent
	info      *entities.HostInfo

	mutateAudio bool
	speakers    []entities.Optional[entities.UserID]

	decodeData bool
	received   []string
	decoded    []string
	decodeErr  error
}

func (r *recorder) Init(host *api.API) error {
	r.inits++
	if r.initErr != nil {
		return r.initErr
	}
	r.host = host
	return host.Log("recorder ready")
}

func (r *recorder) Shutdown() {
	r.shutdowns++
}

func (r *recorder) SetHostInfo(info entities.HostInfo) {
	r.info = &info
}

func (r *recorder) OnServerConnected(entities.ConnectionID) {
	r.events = append(r.events, "connected")
}

func (r *recorder) OnServerDisconnected(entities.ConnectionID) {
	r.events = append(r.events, "disconnected")
}

func (r *recorder) OnServerSynchronized(entities.ConnectionID) {
	r.events = append(r.events, "synchronized")
}

func (r *recorder) OnUserTalkingStateChanged(_ entities.ConnectionID, _ entities.UserID, state entities.TalkingState) {
	r.events = append(r.events, "talking:"+state.String())
}

func (r *recorder) OnUserAdded(entities.ConnectionID, entities.UserID) {
	r.events = append(r.events, "user-added")
}

func (r *recorder) OnUserRemoved(entities.ConnectionID, entities.UserID) {
	r.events = append(r.events, "user-removed")
}

func (r *recorder) OnKeyEvent(_ entities.KeyCode, pressed bool) {
	if pressed {
		r.events = append(r.events, "key-down")
	} else {
		r.events = append(r.events, "key-up")
	}
}

func (r *recorder) OnChannelEntered(_ entities.ConnectionID, _ entities.UserID, previous, current entities.Optional[entities.ChannelID]) {
	r.channels = append(r.channels, channelEvent{hook: "entered", previous: previous, channel: current})
}

func (r *recorder) OnChannelExited(_ entities.ConnectionID, _ entities.UserID, channel entities.Optional[entities.ChannelID]) {
	r.channels = append(r.channels, channelEvent{hook: "exited", channel: channel})
}

func (r *recorder) OnChannelAdded(_ entities.ConnectionID, channel entities.Optional[entities.ChannelID]) {
	r.channels = append(r.channels, channelEvent{hook: "added", channel: channel})
}

func (r *recorder) OnChannelRemoved(_ entities.ConnectionID, channel entities.Optional[entities.ChannelID]) {
	r.channels = append(r.channels, channelEvent{hook: "removed", channel: channel})
}

func (r *recorder) OnChannelRenamed(_ entities.ConnectionID, channel entities.Optional[entities.ChannelID]) {
	r.channels = append(r.channels, channelEvent{hook: "renamed", channel: channel})
}

func (r *recorder) OnAudioInput(pcm []int16, _ uint32, _ uint16, _ uint32, _ bool) bool {
	if !r.mutateAudio {
		return false
	}
	for i := range pcm {
		pcm[i] /= 2
	}
	return true
}

func (r *recorder) OnAudioSourceFetched(pcm []float32, _ uint32, _ uint16, _ uint32, _ bool, speaker entities.Optional[entities.UserID]) bool {
	r.speakers = append(r.speakers, speaker)
	return false
}

func (r *recorder) OnAudioOutputAboutToPlay(pcm []float32, _ uint32, _ uint16, _ uint32) bool {
	if !r.mutateAudio {
		return false
	}
	for i := range pcm {
		pcm[i] = 0
	}
	return true
}

func (r *recorder) OnReceiveData(_ entities.ConnectionID, _ entities.UserID, dataID string, decode plugin.DataDecoder) bool {
	r.received = append(r.received, dataID)
	if !r.decodeData {
		return false
	}
	text, err := decode()
	if err != nil {
		r.decodeErr = err
		return false
	}
	r.decoded = append(r.decoded, text)
	return true
}

// deactivator keeps positional audio and drops everything else.
type deactivator struct {
	recorder
}

func (d *deactivator) DeactivateFeatures(features entities.Features) entities.Features {
	return features & entities.FeaturePositional
}

type staticUpdater struct {
	available bool
	url       string
}

func (u staticUpdater) HasUpdate() bool           { return u.available }
func (u staticUpdater) UpdateDownloadURL() string { return u.url }

// selfConfiguring installs its own updater from Init and reads the registry
// back from a hook.
type selfConfiguring struct {
	*recorder
	reg *plugin.Registry

	initState plugin.State
	initName  string
	syncURL   string
}

func (s *selfConfiguring) Init(host *api.API) error {
	s.reg.SetUpdater(staticUpdater{available: true, url: "https://example.org/v2"})
	s.initState = s.reg.State()
	s.initName = s.reg.Descriptor().Name
	return s.recorder.Init(host)
}

func (s *selfConfiguring) OnServerSynchronized(conn entities.ConnectionID) {
	s.recorder.OnServerSynchronized(conn)
	if u := s.reg.Updater(); u != nil {
		s.syncURL = u.UpdateDownloadURL()
	}
}
