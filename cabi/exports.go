//go:build cgo

package cabi

/*
#include "mumble_plugin.h"
*/
import "C"

import (
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/application/resource"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

// stringWrapper hands s to the host as a pinned buffer the host gives back
// through mumble_releaseResource.
func stringWrapper(s string) C.struct_MumbleStringWrapper {
	ptr, n := resource.CString(resources, s)
	return C.struct_MumbleStringWrapper{
		data:           (*C.char)(ptr),
		size:           C.size_t(n),
		needsReleasing: C.bool(true),
	}
}

func cVersion(v entities.Version) C.mumble_version_t {
	return C.mumble_version_t{major: C.int32_t(v.Major), minor: C.int32_t(v.Minor), patch: C.int32_t(v.Patch)}
}

func goVersion(v C.mumble_version_t) entities.Version {
	return entities.Version{Major: int32(v.major), Minor: int32(v.minor), Patch: int32(v.patch)}
}

//export mumble_init
func mumble_init(id C.mumble_plugin_id_t) C.mumble_error_t {
	return C.mumble_error_t(registry.SetIdentity(entities.PluginID(id)))
}

//export mumble_shutdown
func mumble_shutdown() {
	registry.Shutdown()
}

//export mumble_registerAPIFunctions
func mumble_registerAPIFunctions(apiStruct unsafe.Pointer) {
	if apiStruct == nil {
		logger.Error("cabi: host registered a NULL API struct")
		return
	}
	registry.SetTable(tableFromC((*C.struct_MumbleAPI_v_1_0_x)(apiStruct)))
}

//export mumble_releaseResource
func mumble_releaseResource(ptr unsafe.Pointer) {
	if _, err := resources.Release(ptr); err == nil {
		logger.Debug("cabi: released resource", "pointer", uintptr(ptr))
	}
}

//export mumble_setMumbleInfo
func mumble_setMumbleInfo(mumbleVersion, apiVersion, minimumExpected C.mumble_version_t) {
	registry.SetHostInfo(entities.HostInfo{
		MumbleVersion:      goVersion(mumbleVersion),
		APIVersion:         goVersion(apiVersion),
		MinimumExpectedAPI: goVersion(minimumExpected),
	})
}

//export mumble_getName
func mumble_getName() C.struct_MumbleStringWrapper {
	return stringWrapper(registry.Descriptor().Name)
}

//export mumble_getAuthor
func mumble_getAuthor() C.struct_MumbleStringWrapper {
	return stringWrapper(registry.Descriptor().Author)
}

//export mumble_getDescription
func mumble_getDescription() C.struct_MumbleStringWrapper {
	return stringWrapper(registry.Descriptor().Description)
}

//export mumble_getVersion
func mumble_getVersion() C.mumble_version_t {
	return cVersion(registry.Descriptor().Version)
}

//export mumble_getAPIVersion
func mumble_getAPIVersion() C.mumble_version_t {
	return cVersion(registry.Descriptor().APIVersion)
}

//export mumble_getFeatures
func mumble_getFeatures() C.uint32_t {
	return C.uint32_t(dispatcher.Features())
}

//export mumble_deactivateFeatures
func mumble_deactivateFeatures(features C.uint32_t) C.uint32_t {
	return C.uint32_t(dispatcher.DeactivateFeatures(entities.Features(features)))
}

//export mumble_onServerConnected
func mumble_onServerConnected(conn C.mumble_connection_t) {
	dispatcher.ServerConnected(entities.ConnectionID(conn))
}

//export mumble_onServerDisconnected
func mumble_onServerDisconnected(conn C.mumble_connection_t) {
	dispatcher.ServerDisconnected(entities.ConnectionID(conn))
}

//export mumble_onServerSynchronized
func mumble_onServerSynchronized(conn C.mumble_connection_t) {
	dispatcher.ServerSynchronized(entities.ConnectionID(conn))
}

//export mumble_onChannelEntered
func mumble_onChannelEntered(conn C.mumble_connection_t, user C.mumble_userid_t, previous, current C.mumble_channelid_t) {
	dispatcher.ChannelEntered(entities.ConnectionID(conn), entities.UserID(user), entities.ChannelID(previous), entities.ChannelID(current))
}

//export mumble_onChannelExited
func mumble_onChannelExited(conn C.mumble_connection_t, user C.mumble_userid_t, channel C.mumble_channelid_t) {
	dispatcher.ChannelExited(entities.ConnectionID(conn), entities.UserID(user), entities.ChannelID(channel))
}

//export mumble_onUserTalkingStateChanged
func mumble_onUserTalkingStateChanged(conn C.mumble_connection_t, user C.mumble_userid_t, state C.mumble_talking_state_t) {
	dispatcher.UserTalkingStateChanged(entities.ConnectionID(conn), entities.UserID(user), entities.TalkingState(state))
}

//export mumble_onAudioInput
func mumble_onAudioInput(pcm *C.short, sampleCount C.uint32_t, channelCount C.uint16_t, sampleRate C.uint32_t, isSpeech C.bool) C.bool {
	return C.bool(dispatcher.AudioInput((*int16)(unsafe.Pointer(pcm)), uint32(sampleCount), uint16(channelCount), uint32(sampleRate), bool(isSpeech)))
}

//export mumble_onAudioSourceFetched
func mumble_onAudioSourceFetched(pcm *C.float, sampleCount C.uint32_t, channelCount C.uint16_t, sampleRate C.uint32_t, isSpeech C.bool, user C.mumble_userid_t) C.bool {
	return C.bool(dispatcher.AudioSourceFetched((*float32)(unsafe.Pointer(pcm)), uint32(sampleCount), uint16(channelCount), uint32(sampleRate), bool(isSpeech), entities.UserID(user)))
}

//export mumble_onAudioOutputAboutToPlay
func mumble_onAudioOutputAboutToPlay(pcm *C.float, sampleCount C.uint32_t, channelCount C.uint16_t, sampleRate C.uint32_t) C.bool {
	return C.bool(dispatcher.AudioOutputAboutToPlay((*float32)(unsafe.Pointer(pcm)), uint32(sampleCount), uint16(channelCount), uint32(sampleRate)))
}

//export mumble_onReceiveData
func mumble_onReceiveData(conn C.mumble_connection_t, sender C.mumble_userid_t, data *C.uint8_t, dataLength C.size_t, dataID *C.char) C.bool {
	return C.bool(dispatcher.ReceiveData(entities.ConnectionID(conn), entities.UserID(sender), (*byte)(unsafe.Pointer(data)), uintptr(dataLength), (*byte)(unsafe.Pointer(dataID))))
}

//export mumble_onUserAdded
func mumble_onUserAdded(conn C.mumble_connection_t, user C.mumble_userid_t) {
	dispatcher.UserAdded(entities.ConnectionID(conn), entities.UserID(user))
}

//export mumble_onUserRemoved
func mumble_onUserRemoved(conn C.mumble_connection_t, user C.mumble_userid_t) {
	dispatcher.UserRemoved(entities.ConnectionID(conn), entities.UserID(user))
}

//export mumble_onChannelAdded
func mumble_onChannelAdded(conn C.mumble_connection_t, channel C.mumble_channelid_t) {
	dispatcher.ChannelAdded(entities.ConnectionID(conn), entities.ChannelID(channel))
}

//export mumble_onChannelRemoved
func mumble_onChannelRemoved(conn C.mumble_connection_t, channel C.mumble_channelid_t) {
	dispatcher.ChannelRemoved(entities.ConnectionID(conn), entities.ChannelID(channel))
}

//export mumble_onChannelRenamed
func mumble_onChannelRenamed(conn C.mumble_connection_t, channel C.mumble_channelid_t) {
	dispatcher.ChannelRenamed(entities.ConnectionID(conn), entities.ChannelID(channel))
}

//export mumble_onKeyEvent
func mumble_onKeyEvent(keyCode C.uint32_t, wasPress C.bool) {
	dispatcher.KeyEvent(entities.KeyCode(keyCode), bool(wasPress))
}

//export mumble_hasUpdate
func mumble_hasUpdate() C.bool {
	return C.bool(dispatcher.HasUpdate())
}

//export mumble_getUpdateDownloadURL
func mumble_getUpdateDownloadURL(buffer *C.char, bufferSize C.uint16_t, offset C.uint16_t) C.bool {
	return C.bool(dispatcher.UpdateDownloadURL((*byte)(unsafe.Pointer(buffer)), uint16(bufferSize), uint16(offset)))
}
