//go:build cgo

package cabi

/*
#include "mumble_plugin.h"

static inline mumble_error_t call_freeMemory(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, const void *ptr) {
	return api->freeMemory(id, ptr);
}
static inline mumble_error_t call_getActiveServerConnection(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t *connection) {
	return api->getActiveServerConnection(id, connection);
}
static inline mumble_error_t call_isConnectionSynchronized(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, bool *synchronized) {
	return api->isConnectionSynchronized(id, connection, synchronized);
}
static inline mumble_error_t call_getLocalUserID(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t *userID) {
	return api->getLocalUserID(id, connection, userID);
}
static inline mumble_error_t call_getUserName(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, const char **out) {
	return api->getUserName(id, connection, userID, out);
}
static inline mumble_error_t call_getChannelName(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t channelID, const char **out) {
	return api->getChannelName(id, connection, channelID, out);
}
static inline mumble_error_t call_getAllUsers(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t **users, size_t *count) {
	return api->getAllUsers(id, connection, users, count);
}
static inline mumble_error_t call_getAllChannels(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t **channels, size_t *count) {
	return api->getAllChannels(id, connection, channels, count);
}
static inline mumble_error_t call_getChannelOfUser(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, mumble_channelid_t *channel) {
	return api->getChannelOfUser(id, connection, userID, channel);
}
static inline mumble_error_t call_getUsersInChannel(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t channelID, mumble_userid_t **users, size_t *count) {
	return api->getUsersInChannel(id, connection, channelID, users, count);
}
static inline mumble_error_t call_getLocalUserTransmissionMode(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_transmission_mode_t *mode) {
	return api->getLocalUserTransmissionMode(id, mode);
}
static inline mumble_error_t call_isUserLocallyMuted(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, bool *muted) {
	return api->isUserLocallyMuted(id, connection, userID, muted);
}
static inline mumble_error_t call_isLocalUserMuted(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, bool *muted) {
	return api->isLocalUserMuted(id, muted);
}
static inline mumble_error_t call_isLocalUserDeafened(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, bool *deafened) {
	return api->isLocalUserDeafened(id, deafened);
}
static inline mumble_error_t call_getUserHash(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, const char **out) {
	return api->getUserHash(id, connection, userID, out);
}
static inline mumble_error_t call_getServerHash(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, const char **out) {
	return api->getServerHash(id, connection, out);
}
static inline mumble_error_t call_getUserComment(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, const char **out) {
	return api->getUserComment(id, connection, userID, out);
}
static inline mumble_error_t call_getChannelDescription(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t channelID, const char **out) {
	return api->getChannelDescription(id, connection, channelID, out);
}
static inline mumble_error_t call_requestLocalUserTransmissionMode(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_transmission_mode_t mode) {
	return api->requestLocalUserTransmissionMode(id, mode);
}
static inline mumble_error_t call_requestUserMove(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, mumble_channelid_t channelID, const char *password) {
	return api->requestUserMove(id, connection, userID, channelID, password);
}
static inline mumble_error_t call_requestMicrophoneActivationOvewrite(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, bool activate) {
	return api->requestMicrophoneActivationOvewrite(id, activate);
}
static inline mumble_error_t call_requestLocalMute(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, bool muted) {
	return api->requestLocalMute(id, connection, userID, muted);
}
static inline mumble_error_t call_requestLocalUserMute(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, bool muted) {
	return api->requestLocalUserMute(id, muted);
}
static inline mumble_error_t call_requestLocalUserDeaf(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, bool deafened) {
	return api->requestLocalUserDeaf(id, deafened);
}
static inline mumble_error_t call_requestSetLocalUserComment(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, const char *comment) {
	return api->requestSetLocalUserComment(id, connection, comment);
}
static inline mumble_error_t call_findUserByName(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, const char *name, mumble_userid_t *userID) {
	return api->findUserByName(id, connection, name, userID);
}
static inline mumble_error_t call_findChannelByName(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, const char *name, mumble_channelid_t *channelID) {
	return api->findChannelByName(id, connection, name, channelID);
}
static inline mumble_error_t call_sendData(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, mumble_connection_t connection, const mumble_userid_t *users, size_t userCount, const uint8_t *data, size_t dataLength, const char *dataID) {
	return api->sendData(id, connection, users, userCount, data, dataLength, dataID);
}
static inline mumble_error_t call_log(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, const char *message) {
	return api->log(id, message);
}
static inline mumble_error_t call_playSample(struct MumbleAPI_v_1_0_x *api, mumble_plugin_id_t id, const char *path) {
	return api->playSample(id, path);
}
*/
import "C"

import (
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

type (
	pid  = entities.PluginID
	conn = entities.ConnectionID
	uid  = entities.UserID
	cid  = entities.ChannelID
	code = entities.ErrorCode
)

func cChar(p *byte) *C.char {
	return (*C.char)(unsafe.Pointer(p))
}

func cStrOut(p *unsafe.Pointer) **C.char {
	return (**C.char)(unsafe.Pointer(p))
}

func cSize(p *uintptr) *C.size_t {
	return (*C.size_t)(unsafe.Pointer(p))
}

func cBool(p *bool) *C.bool {
	return (*C.bool)(unsafe.Pointer(p))
}

// tableFromC copies the host's API struct and binds every entry it provides.
// Entries the host left NULL stay nil, which api.New rejects.
func tableFromC(raw *C.struct_MumbleAPI_v_1_0_x) abi.Table {
	a := new(C.struct_MumbleAPI_v_1_0_x)
	*a = *raw

	var t abi.Table
	if a.freeMemory != nil {
		t.FreeMemory = func(id pid, ptr unsafe.Pointer) code {
			return code(C.call_freeMemory(a, C.mumble_plugin_id_t(id), ptr))
		}
	}

	if a.getActiveServerConnection != nil {
		t.GetActiveServerConnection = func(id pid, out *conn) code {
			return code(C.call_getActiveServerConnection(a, C.mumble_plugin_id_t(id), (*C.mumble_connection_t)(unsafe.Pointer(out))))
		}
	}
	if a.isConnectionSynchronized != nil {
		t.IsConnectionSynchronized = func(id pid, c conn, out *bool) code {
			return code(C.call_isConnectionSynchronized(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), cBool(out)))
		}
	}
	if a.getLocalUserID != nil {
		t.GetLocalUserID = func(id pid, c conn, out *uid) code {
			return code(C.call_getLocalUserID(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), (*C.mumble_userid_t)(unsafe.Pointer(out))))
		}
	}
	if a.getUserName != nil {
		t.GetUserName = func(id pid, c conn, u uid, out *unsafe.Pointer) code {
			return code(C.call_getUserName(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), cStrOut(out)))
		}
	}
	if a.getChannelName != nil {
		t.GetChannelName = func(id pid, c conn, ch cid, out *unsafe.Pointer) code {
			return code(C.call_getChannelName(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_channelid_t(ch), cStrOut(out)))
		}
	}
	if a.getAllUsers != nil {
		t.GetAllUsers = func(id pid, c conn, out *unsafe.Pointer, n *uintptr) code {
			return code(C.call_getAllUsers(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), (**C.mumble_userid_t)(unsafe.Pointer(out)), cSize(n)))
		}
	}
	if a.getAllChannels != nil {
		t.GetAllChannels = func(id pid, c conn, out *unsafe.Pointer, n *uintptr) code {
			return code(C.call_getAllChannels(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), (**C.mumble_channelid_t)(unsafe.Pointer(out)), cSize(n)))
		}
	}
	if a.getChannelOfUser != nil {
		t.GetChannelOfUser = func(id pid, c conn, u uid, out *cid) code {
			return code(C.call_getChannelOfUser(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), (*C.mumble_channelid_t)(unsafe.Pointer(out))))
		}
	}
	if a.getUsersInChannel != nil {
		t.GetUsersInChannel = func(id pid, c conn, ch cid, out *unsafe.Pointer, n *uintptr) code {
			return code(C.call_getUsersInChannel(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_channelid_t(ch), (**C.mumble_userid_t)(unsafe.Pointer(out)), cSize(n)))
		}
	}

	if a.getLocalUserTransmissionMode != nil {
		t.GetLocalUserTransmissionMode = func(id pid, out *entities.TransmissionMode) code {
			return code(C.call_getLocalUserTransmissionMode(a, C.mumble_plugin_id_t(id), (*C.mumble_transmission_mode_t)(unsafe.Pointer(out))))
		}
	}
	if a.isUserLocallyMuted != nil {
		t.IsUserLocallyMuted = func(id pid, c conn, u uid, out *bool) code {
			return code(C.call_isUserLocallyMuted(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), cBool(out)))
		}
	}
	if a.isLocalUserMuted != nil {
		t.IsLocalUserMuted = func(id pid, out *bool) code {
			return code(C.call_isLocalUserMuted(a, C.mumble_plugin_id_t(id), cBool(out)))
		}
	}
	if a.isLocalUserDeafened != nil {
		t.IsLocalUserDeafened = func(id pid, out *bool) code {
			return code(C.call_isLocalUserDeafened(a, C.mumble_plugin_id_t(id), cBool(out)))
		}
	}

	if a.getUserHash != nil {
		t.GetUserHash = func(id pid, c conn, u uid, out *unsafe.Pointer) code {
			return code(C.call_getUserHash(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), cStrOut(out)))
		}
	}
	if a.getServerHash != nil {
		t.GetServerHash = func(id pid, c conn, out *unsafe.Pointer) code {
			return code(C.call_getServerHash(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), cStrOut(out)))
		}
	}
	if a.getUserComment != nil {
		t.GetUserComment = func(id pid, c conn, u uid, out *unsafe.Pointer) code {
			return code(C.call_getUserComment(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), cStrOut(out)))
		}
	}
	if a.getChannelDescription != nil {
		t.GetChannelDescription = func(id pid, c conn, ch cid, out *unsafe.Pointer) code {
			return code(C.call_getChannelDescription(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_channelid_t(ch), cStrOut(out)))
		}
	}

	if a.requestLocalUserTransmissionMode != nil {
		t.RequestLocalUserTransmissionMode = func(id pid, mode entities.TransmissionMode) code {
			return code(C.call_requestLocalUserTransmissionMode(a, C.mumble_plugin_id_t(id), C.mumble_transmission_mode_t(mode)))
		}
	}
	if a.requestUserMove != nil {
		t.RequestUserMove = func(id pid, c conn, u uid, ch cid, password *byte) code {
			return code(C.call_requestUserMove(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), C.mumble_channelid_t(ch), cChar(password)))
		}
	}
	if a.requestMicrophoneActivationOvewrite != nil {
		t.RequestMicrophoneActivationOverwrite = func(id pid, activate bool) code {
			return code(C.call_requestMicrophoneActivationOvewrite(a, C.mumble_plugin_id_t(id), C.bool(activate)))
		}
	}
	if a.requestLocalMute != nil {
		t.RequestLocalMute = func(id pid, c conn, u uid, muted bool) code {
			return code(C.call_requestLocalMute(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), C.mumble_userid_t(u), C.bool(muted)))
		}
	}
	if a.requestLocalUserMute != nil {
		t.RequestLocalUserMute = func(id pid, muted bool) code {
			return code(C.call_requestLocalUserMute(a, C.mumble_plugin_id_t(id), C.bool(muted)))
		}
	}
	if a.requestLocalUserDeaf != nil {
		t.RequestLocalUserDeaf = func(id pid, deafened bool) code {
			return code(C.call_requestLocalUserDeaf(a, C.mumble_plugin_id_t(id), C.bool(deafened)))
		}
	}
	if a.requestSetLocalUserComment != nil {
		t.RequestSetLocalUserComment = func(id pid, c conn, comment *byte) code {
			return code(C.call_requestSetLocalUserComment(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), cChar(comment)))
		}
	}

	if a.findUserByName != nil {
		t.FindUserByName = func(id pid, c conn, name *byte, out *uid) code {
			return code(C.call_findUserByName(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), cChar(name), (*C.mumble_userid_t)(unsafe.Pointer(out))))
		}
	}
	if a.findChannelByName != nil {
		t.FindChannelByName = func(id pid, c conn, name *byte, out *cid) code {
			return code(C.call_findChannelByName(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c), cChar(name), (*C.mumble_channelid_t)(unsafe.Pointer(out))))
		}
	}

	if a.sendData != nil {
		t.SendData = func(id pid, c conn, users *uid, userCount uintptr, data *byte, dataLen uintptr, dataID *byte) code {
			return code(C.call_sendData(a, C.mumble_plugin_id_t(id), C.mumble_connection_t(c),
				(*C.mumble_userid_t)(unsafe.Pointer(users)), C.size_t(userCount),
				(*C.uint8_t)(unsafe.Pointer(data)), C.size_t(dataLen), cChar(dataID)))
		}
	}
	if a.log != nil {
		t.Log = func(id pid, message *byte) code {
			return code(C.call_log(a, C.mumble_plugin_id_t(id), cChar(message)))
		}
	}
	if a.playSample != nil {
		t.PlaySample = func(id pid, path *byte) code {
			return code(C.call_playSample(a, C.mumble_plugin_id_t(id), cChar(path)))
		}
	}
	return t
}
