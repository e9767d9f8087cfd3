//go:build cgo

package cabi

/*
#include <stdlib.h>
#include <string.h>
#include "mumble_plugin.h"

static struct MumbleAPI_v_1_0_x th_api;
static int th_allocs;
static int th_frees;
static mumble_plugin_id_t th_caller;
static char th_logBuf[512];
static int th_logs;
static size_t th_sentUsers;
static size_t th_sentBytes;
static char th_sentID[128];

static void *th_alloc(size_t n) {
	th_allocs++;
	return malloc(n);
}

static const char *th_dup(const char *s) {
	size_t n = strlen(s) + 1;
	char *p = th_alloc(n);
	memcpy(p, s, n);
	return p;
}

static mumble_error_t th_freeMemory(mumble_plugin_id_t id, const void *ptr) {
	th_caller = id;
	th_frees++;
	free((void *)ptr);
	return 0;
}

static mumble_error_t th_getActiveServerConnection(mumble_plugin_id_t id, mumble_connection_t *connection) {
	th_caller = id;
	*connection = 1;
	return 0;
}

static mumble_error_t th_isConnectionSynchronized(mumble_plugin_id_t id, mumble_connection_t connection, bool *synchronized) {
	th_caller = id;
	*synchronized = connection == 1;
	return 0;
}

static mumble_error_t th_getLocalUserID(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t *userID) {
	th_caller = id;
	*userID = 1;
	return 0;
}

static const char *th_userName(mumble_userid_t user) {
	switch (user) {
	case 1:
		return "alice";
	case 2:
		return "bob";
	}
	return NULL;
}

static mumble_error_t th_getUserName(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, const char **out) {
	th_caller = id;
	const char *name = th_userName(userID);
	if (name == NULL) {
		return 3;
	}
	*out = th_dup(name);
	return 0;
}

static mumble_error_t th_getChannelName(mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t channelID, const char **out) {
	th_caller = id;
	if (channelID != 0) {
		return 4;
	}
	*out = th_dup("Root");
	return 0;
}

static mumble_error_t th_userList(mumble_userid_t **users, size_t *count) {
	mumble_userid_t *list = th_alloc(2 * sizeof(mumble_userid_t));
	list[0] = 1;
	list[1] = 2;
	*users = list;
	*count = 2;
	return 0;
}

static mumble_error_t th_getAllUsers(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t **users, size_t *count) {
	th_caller = id;
	return th_userList(users, count);
}

static mumble_error_t th_getAllChannels(mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t **channels, size_t *count) {
	th_caller = id;
	mumble_channelid_t *list = th_alloc(sizeof(mumble_channelid_t));
	list[0] = 0;
	*channels = list;
	*count = 1;
	return 0;
}

static mumble_error_t th_getChannelOfUser(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, mumble_channelid_t *channel) {
	th_caller = id;
	if (th_userName(userID) == NULL) {
		return 3;
	}
	*channel = 0;
	return 0;
}

static mumble_error_t th_getUsersInChannel(mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t channelID, mumble_userid_t **users, size_t *count) {
	th_caller = id;
	if (channelID != 0) {
		return 4;
	}
	return th_userList(users, count);
}

static mumble_error_t th_getLocalUserTransmissionMode(mumble_plugin_id_t id, mumble_transmission_mode_t *mode) {
	th_caller = id;
	*mode = 1;
	return 0;
}

static mumble_error_t th_isUserLocallyMuted(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, bool *muted) {
	th_caller = id;
	*muted = userID == 2;
	return 0;
}

static mumble_error_t th_isLocalUserMuted(mumble_plugin_id_t id, bool *muted) {
	th_caller = id;
	*muted = false;
	return 0;
}

static mumble_error_t th_isLocalUserDeafened(mumble_plugin_id_t id, bool *deafened) {
	th_caller = id;
	*deafened = false;
	return 0;
}

static mumble_error_t th_getUserHash(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, const char **out) {
	th_caller = id;
	if (th_userName(userID) == NULL) {
		return 3;
	}
	*out = th_dup("user-hash");
	return 0;
}

static mumble_error_t th_getServerHash(mumble_plugin_id_t id, mumble_connection_t connection, const char **out) {
	th_caller = id;
	*out = th_dup("server-hash");
	return 0;
}

static mumble_error_t th_getUserComment(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, const char **out) {
	th_caller = id;
	if (th_userName(userID) == NULL) {
		return 3;
	}
	*out = th_dup("");
	return 0;
}

static mumble_error_t th_getChannelDescription(mumble_plugin_id_t id, mumble_connection_t connection, mumble_channelid_t channelID, const char **out) {
	th_caller = id;
	if (channelID != 0) {
		return 4;
	}
	*out = th_dup("the root channel");
	return 0;
}

static mumble_error_t th_requestLocalUserTransmissionMode(mumble_plugin_id_t id, mumble_transmission_mode_t mode) {
	th_caller = id;
	return 0;
}

static mumble_error_t th_requestUserMove(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, mumble_channelid_t channelID, const char *password) {
	th_caller = id;
	return 0;
}

static mumble_error_t th_requestMicrophoneActivationOvewrite(mumble_plugin_id_t id, bool activate) {
	th_caller = id;
	return 0;
}

static mumble_error_t th_requestLocalMute(mumble_plugin_id_t id, mumble_connection_t connection, mumble_userid_t userID, bool muted) {
	th_caller = id;
	return userID == 1 ? 10 : 0;
}

static mumble_error_t th_requestLocalUserMute(mumble_plugin_id_t id, bool muted) {
	th_caller = id;
	return 0;
}

static mumble_error_t th_requestLocalUserDeaf(mumble_plugin_id_t id, bool deafened) {
	th_caller = id;
	return 0;
}

static mumble_error_t th_requestSetLocalUserComment(mumble_plugin_id_t id, mumble_connection_t connection, const char *comment) {
	th_caller = id;
	return 0;
}

static mumble_error_t th_findUserByName(mumble_plugin_id_t id, mumble_connection_t connection, const char *name, mumble_userid_t *userID) {
	th_caller = id;
	if (strcmp(name, "alice") == 0) {
		*userID = 1;
		return 0;
	}
	if (strcmp(name, "bob") == 0) {
		*userID = 2;
		return 0;
	}
	return 3;
}

static mumble_error_t th_findChannelByName(mumble_plugin_id_t id, mumble_connection_t connection, const char *name, mumble_channelid_t *channelID) {
	th_caller = id;
	if (strcmp(name, "Root") == 0) {
		*channelID = 0;
		return 0;
	}
	return 4;
}

static mumble_error_t th_sendData(mumble_plugin_id_t id, mumble_connection_t connection, const mumble_userid_t *users, size_t userCount, const uint8_t *data, size_t dataLength, const char *dataID) {
	th_caller = id;
	th_sentUsers = userCount;
	th_sentBytes = dataLength;
	strncpy(th_sentID, dataID, sizeof(th_sentID) - 1);
	return 0;
}

static mumble_error_t th_log(mumble_plugin_id_t id, const char *message) {
	th_caller = id;
	th_logs++;
	strncpy(th_logBuf, message, sizeof(th_logBuf) - 1);
	return 0;
}

static mumble_error_t th_playSample(mumble_plugin_id_t id, const char *path) {
	th_caller = id;
	return path[0] == '\0' ? 8 : 0;
}

static struct MumbleAPI_v_1_0_x *th_reset(void) {
	memset(&th_api, 0, sizeof(th_api));
	th_allocs = th_frees = th_logs = 0;
	th_caller = 0;
	th_sentUsers = th_sentBytes = 0;
	memset(th_logBuf, 0, sizeof(th_logBuf));
	memset(th_sentID, 0, sizeof(th_sentID));

	th_api.freeMemory = th_freeMemory;
	th_api.getActiveServerConnection = th_getActiveServerConnection;
	th_api.isConnectionSynchronized = th_isConnectionSynchronized;
	th_api.getLocalUserID = th_getLocalUserID;
	th_api.getUserName = th_getUserName;
	th_api.getChannelName = th_getChannelName;
	th_api.getAllUsers = th_getAllUsers;
	th_api.getAllChannels = th_getAllChannels;
	th_api.getChannelOfUser = th_getChannelOfUser;
	th_api.getUsersInChannel = th_getUsersInChannel;
	th_api.getLocalUserTransmissionMode = th_getLocalUserTransmissionMode;
	th_api.isUserLocallyMuted = th_isUserLocallyMuted;
	th_api.isLocalUserMuted = th_isLocalUserMuted;
	th_api.isLocalUserDeafened = th_isLocalUserDeafened;
	th_api.getUserHash = th_getUserHash;
	th_api.getServerHash = th_getServerHash;
	th_api.getUserComment = th_getUserComment;
	th_api.getChannelDescription = th_getChannelDescription;
	th_api.requestLocalUserTransmissionMode = th_requestLocalUserTransmissionMode;
	th_api.requestUserMove = th_requestUserMove;
	th_api.requestMicrophoneActivationOvewrite = th_requestMicrophoneActivationOvewrite;
	th_api.requestLocalMute = th_requestLocalMute;
	th_api.requestLocalUserMute = th_requestLocalUserMute;
	th_api.requestLocalUserDeaf = th_requestLocalUserDeaf;
	th_api.requestSetLocalUserComment = th_requestSetLocalUserComment;
	th_api.findUserByName = th_findUserByName;
	th_api.findChannelByName = th_findChannelByName;
	th_api.sendData = th_sendData;
	th_api.log = th_log;
	th_api.playSample = th_playSample;
	return &th_api;
}

static struct MumbleAPI_v_1_0_x *th_without_log(void) {
	th_api.log = NULL;
	return &th_api;
}

static int th_live(void) { return th_allocs - th_frees; }
static int th_freed(void) { return th_frees; }
static int th_logged(void) { return th_logs; }
static const char *th_lastLog(void) { return th_logBuf; }
static mumble_plugin_id_t th_lastCaller(void) { return th_caller; }
static size_t th_lastSentUsers(void) { return th_sentUsers; }
static size_t th_lastSentBytes(void) { return th_sentBytes; }
static const char *th_lastSentID(void) { return th_sentID; }
*/
import "C"

import (
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

// cHost is an in-process C implementation of the host API struct. It
// allocates with malloc and counts frees, and drives the exported entry
// points the way Mumble does. The package tests use it to cross the real
// cgo boundary.
type cHost struct {
	raw *C.struct_MumbleAPI_v_1_0_x
}

// newCHost resets the C host's counters and returns it with every entry set.
func newCHost() cHost {
	return cHost{raw: C.th_reset()}
}

// withoutLog clears the log entry, leaving an incomplete struct.
func (h cHost) withoutLog() cHost {
	return cHost{raw: C.th_without_log()}
}

func (h cHost) table() abi.Table {
	return tableFromC(h.raw)
}

func (h cHost) live() int  { return int(C.th_live()) }
func (h cHost) frees() int { return int(C.th_freed()) }
func (h cHost) logs() int  { return int(C.th_logged()) }

func (h cHost) lastLog() string {
	return C.GoString(C.th_lastLog())
}

func (h cHost) lastCaller() entities.PluginID {
	return entities.PluginID(C.th_lastCaller())
}

func (h cHost) lastSent() (users, bytes int, dataID string) {
	return int(C.th_lastSentUsers()), int(C.th_lastSentBytes()), C.GoString(C.th_lastSentID())
}

func (h cHost) registerAPI() {
	mumble_registerAPIFunctions(unsafe.Pointer(h.raw))
}

func (h cHost) registerNullAPI() {
	mumble_registerAPIFunctions(nil)
}

func (h cHost) init(id entities.PluginID) entities.ErrorCode {
	return entities.ErrorCode(mumble_init(C.mumble_plugin_id_t(id)))
}

func (h cHost) shutdown() {
	mumble_shutdown()
}

// metadata reads one string getter and hands the buffer back the way the
// host does when the plugin asked for it to be released.
func (h cHost) metadata(get func() C.struct_MumbleStringWrapper) (string, bool) {
	w := get()
	s := C.GoStringN(w.data, C.int(w.size))
	release := bool(w.needsReleasing)
	if release {
		mumble_releaseResource(unsafe.Pointer(w.data))
	}
	return s, release
}

func (h cHost) name() (string, bool)   { return h.metadata(mumble_getName) }
func (h cHost) author() (string, bool) { return h.metadata(mumble_getAuthor) }

func (h cHost) releaseUnknown() {
	var x C.int
	mumble_releaseResource(unsafe.Pointer(&x))
}

func (h cHost) version() entities.Version {
	return goVersion(mumble_getVersion())
}

func (h cHost) features() entities.Features {
	return entities.Features(mumble_getFeatures())
}

func (h cHost) serverSynchronized(conn entities.ConnectionID) {
	mumble_onServerSynchronized(C.mumble_connection_t(conn))
}

func (h cHost) channelEntered(conn entities.ConnectionID, user entities.UserID, previous, current entities.ChannelID) {
	mumble_onChannelEntered(C.mumble_connection_t(conn), C.mumble_userid_t(user), C.mumble_channelid_t(previous), C.mumble_channelid_t(current))
}

// audioInput passes a C copy of pcm to the hook and returns what the plugin
// left in the buffer.
func (h cHost) audioInput(pcm []int16, channels uint16) ([]int16, bool) {
	n := C.size_t(len(pcm)) * C.size_t(unsafe.Sizeof(pcm[0]))
	buf := (*C.short)(C.malloc(n))
	defer C.free(unsafe.Pointer(buf))
	view := unsafe.Slice((*int16)(unsafe.Pointer(buf)), len(pcm))
	copy(view, pcm)
	changed := mumble_onAudioInput(buf, C.uint32_t(len(pcm)/int(channels)), C.uint16_t(channels), 48000, C.bool(true))
	return append([]int16(nil), view...), bool(changed)
}

// updateURL asks for the update URL with a host buffer of size bytes.
func (h cHost) updateURL(size int) (string, bool) {
	buf := (*C.char)(C.malloc(C.size_t(size)))
	defer C.free(unsafe.Pointer(buf))
	fit := mumble_getUpdateDownloadURL(buf, C.uint16_t(size), 0)
	return C.GoString(buf), bool(fit)
}
