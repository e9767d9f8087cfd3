package plugin

import (
	"bytes"
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

// Dispatcher translates raw host callbacks into plugin hook calls. Each
// method takes the values exactly as the host passes them.
type Dispatcher struct {
	reg *Registry
}

// NewDispatcher routes host callbacks into reg.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Registry returns the registry the dispatcher routes into.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// ServerConnected reports a new server connection.
func (d *Dispatcher) ServerConnected(conn entities.ConnectionID) {
	d.reg.Do("onServerConnected", func(p Plugin) { p.OnServerConnected(conn) })
}

// ServerDisconnected reports a closed server connection.
func (d *Dispatcher) ServerDisconnected(conn entities.ConnectionID) {
	d.reg.Do("onServerDisconnected", func(p Plugin) { p.OnServerDisconnected(conn) })
}

// ServerSynchronized reports that conn finished its initial sync.
func (d *Dispatcher) ServerSynchronized(conn entities.ConnectionID) {
	d.reg.Do("onServerSynchronized", func(p Plugin) { p.OnServerSynchronized(conn) })
}

// ChannelEntered reports a user moving into a channel. Either side may be
// the host's no-channel sentinel.
func (d *Dispatcher) ChannelEntered(conn entities.ConnectionID, user entities.UserID, previous, current entities.ChannelID) {
	d.reg.Do("onChannelEntered", func(p Plugin) {
		p.OnChannelEntered(conn, user, previous.Check(), current.Check())
	})
}

// ChannelExited reports a user leaving a channel.
func (d *Dispatcher) ChannelExited(conn entities.ConnectionID, user entities.UserID, channel entities.ChannelID) {
	d.reg.Do("onChannelExited", func(p Plugin) { p.OnChannelExited(conn, user, channel.Check()) })
}

// UserTalkingStateChanged reports a change in a user's talking state.
func (d *Dispatcher) UserTalkingStateChanged(conn entities.ConnectionID, user entities.UserID, state entities.TalkingState) {
	d.reg.Do("onUserTalkingStateChanged", func(p Plugin) { p.OnUserTalkingStateChanged(conn, user, state) })
}

// AudioInput hands the captured microphone samples to the plugin in place.
func (d *Dispatcher) AudioInput(pcm *int16, sampleCount uint32, channelCount uint16, sampleRate uint32, isSpeech bool) bool {
	buf := sampleView(pcm, sampleCount, channelCount)
	return with(d.reg, "onAudioInput", func(p Plugin) bool {
		return p.OnAudioInput(buf, sampleCount, channelCount, sampleRate, isSpeech)
	})
}

// AudioSourceFetched hands one fetched audio source to the plugin. The speaker
// is only meaningful when isSpeech is set and the host passed a non-zero id.
func (d *Dispatcher) AudioSourceFetched(pcm *float32, sampleCount uint32, channelCount uint16, sampleRate uint32, isSpeech bool, user entities.UserID) bool {
	buf := sampleView(pcm, sampleCount, channelCount)
	speaker := entities.None[entities.UserID]()
	if isSpeech && user != 0 {
		speaker = entities.Some(user)
	}
	return with(d.reg, "onAudioSourceFetched", func(p Plugin) bool {
		return p.OnAudioSourceFetched(buf, sampleCount, channelCount, sampleRate, isSpeech, speaker)
	})
}

// AudioOutputAboutToPlay hands the final mixed output to the plugin.
func (d *Dispatcher) AudioOutputAboutToPlay(pcm *float32, sampleCount uint32, channelCount uint16, sampleRate uint32) bool {
	buf := sampleView(pcm, sampleCount, channelCount)
	return with(d.reg, "onAudioOutputAboutToPlay", func(p Plugin) bool {
		return p.OnAudioOutputAboutToPlay(buf, sampleCount, channelCount, sampleRate)
	})
}

// sampleView aliases the host buffer without copying.
func sampleView[T int16 | float32](pcm *T, sampleCount uint32, channelCount uint16) []T {
	n := int(sampleCount) * int(channelCount)
	if pcm == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(pcm, n)
}

// ReceiveData offers a data packet to the plugin. The payload is only decoded
// if the plugin asks for it. A data id that is not valid text is logged and
// the packet reported as not consumed.
func (d *Dispatcher) ReceiveData(conn entities.ConnectionID, sender entities.UserID, data *byte, length uintptr, dataID *byte) bool {
	return with(d.reg, "onReceiveData", func(p Plugin) bool {
		kind, err := abi.GoString(unsafe.Pointer(dataID))
		if err != nil {
			d.reg.logger.Warn("plugin: dropping data with undecodable id", "sender", sender, "error", err)
			return false
		}
		var raw []byte
		if data != nil && length > 0 {
			raw = unsafe.Slice(data, length)
		}
		return p.OnReceiveData(conn, sender, kind, payloadDecoder(raw))
	})
}

// payloadDecoder decodes raw as UTF-8 text. A single trailing NUL is part of
// the wire format and dropped; any other NUL is an error.
func payloadDecoder(raw []byte) DataDecoder {
	return func() (string, error) {
		b := raw
		if n := len(b); n > 0 && b[n-1] == 0 {
			b = b[:n-1]
		}
		if i := bytes.IndexByte(b, 0); i >= 0 {
			return "", &errors.EncodingError{Field: "data", Offset: i, Err: errors.ErrEmbeddedNUL}
		}
		if len(b) == 0 {
			return "", nil
		}
		return abi.GoStringN(unsafe.Pointer(&b[0]), len(b))
	}
}

// UserAdded reports a user joining the server.
func (d *Dispatcher) UserAdded(conn entities.ConnectionID, user entities.UserID) {
	d.reg.Do("onUserAdded", func(p Plugin) { p.OnUserAdded(conn, user) })
}

// UserRemoved reports a user leaving the server.
func (d *Dispatcher) UserRemoved(conn entities.ConnectionID, user entities.UserID) {
	d.reg.Do("onUserRemoved", func(p Plugin) { p.OnUserRemoved(conn, user) })
}

// ChannelAdded reports a new channel.
func (d *Dispatcher) ChannelAdded(conn entities.ConnectionID, channel entities.ChannelID) {
	d.reg.Do("onChannelAdded", func(p Plugin) { p.OnChannelAdded(conn, channel.Check()) })
}

// ChannelRemoved reports a deleted channel.
func (d *Dispatcher) ChannelRemoved(conn entities.ConnectionID, channel entities.ChannelID) {
	d.reg.Do("onChannelRemoved", func(p Plugin) { p.OnChannelRemoved(conn, channel.Check()) })
}

// ChannelRenamed reports a channel whose name changed.
func (d *Dispatcher) ChannelRenamed(conn entities.ConnectionID, channel entities.ChannelID) {
	d.reg.Do("onChannelRenamed", func(p Plugin) { p.OnChannelRenamed(conn, channel.Check()) })
}

// KeyEvent reports a key press or release.
func (d *Dispatcher) KeyEvent(key entities.KeyCode, pressed bool) {
	d.reg.Do("onKeyEvent", func(p Plugin) { p.OnKeyEvent(key, pressed) })
}

// HasUpdate asks the updater, if one is registered. The host polls this for
// loaded plugins whether or not they are active, so it does not require the
// Active state.
func (d *Dispatcher) HasUpdate() bool {
	u := d.reg.Updater()
	if u == nil {
		return false
	}
	return u.HasUpdate()
}

// UpdateDownloadURL copies the updater's download URL, starting at offset,
// into the host buffer and NUL-terminates it. Without an updater the buffer
// receives an empty string. It reports whether the rest of the URL fit; the
// host calls again with a larger offset otherwise.
func (d *Dispatcher) UpdateDownloadURL(buf *byte, size uint16, offset uint16) bool {
	if buf == nil || size == 0 {
		errors.Violation("url-buffer", "update URL buffer cannot hold a terminator (size %d)", size)
	}
	out := unsafe.Slice(buf, size)
	url := ""
	if u := d.reg.Updater(); u != nil {
		url = u.UpdateDownloadURL()
	}
	return abi.FillCString(out, url, int(offset))
}

// Features reports the features the plugin declared.
func (d *Dispatcher) Features() entities.Features {
	return d.reg.Descriptor().Features
}

// DeactivateFeatures asks the plugin to stop using features and returns the
// ones that remain active. Plugins without FeatureDeactivator keep them all.
func (d *Dispatcher) DeactivateFeatures(features entities.Features) entities.Features {
	return with(d.reg, "deactivateFeatures", func(p Plugin) entities.Features {
		if fd, ok := p.(FeatureDeactivator); ok {
			return fd.DeactivateFeatures(features)
		}
		return features
	})
}
