// Package abi models the raw host ABI in Go: the function table the host
// supplies, scoped ownership of host-allocated memory, uninitialized output
// slots and C string marshalling. Nothing here knows about plugins.
package abi

import (
	"reflect"
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

type (
	id      = entities.PluginID
	conn    = entities.ConnectionID
	user    = entities.UserID
	channel = entities.ChannelID
	code    = entities.ErrorCode
)

// Table is the raw host function table, one field per host capability.
// Out-parameters are raw cells the host writes into; string inputs are
// NUL-terminated buffers produced by CString. Pointer cells written by the
// host (strings and arrays) must be handed back through FreeMemory.
//
// A Table is a plain value: copying it copies the function pointers only.
type Table struct {
	FreeMemory func(id, unsafe.Pointer) code

	GetActiveServerConnection func(id, *conn) code
	IsConnectionSynchronized  func(id, conn, *bool) code
	GetLocalUserID            func(id, conn, *user) code
	GetUserName               func(id, conn, user, *unsafe.Pointer) code
	GetChannelName            func(id, conn, channel, *unsafe.Pointer) code
	GetAllUsers               func(id, conn, *unsafe.Pointer, *uintptr) code
	GetAllChannels            func(id, conn, *unsafe.Pointer, *uintptr) code
	GetChannelOfUser          func(id, conn, user, *channel) code
	GetUsersInChannel         func(id, conn, channel, *unsafe.Pointer, *uintptr) code

	GetLocalUserTransmissionMode func(id, *entities.TransmissionMode) code
	IsUserLocallyMuted           func(id, conn, user, *bool) code
	IsLocalUserMuted             func(id, *bool) code
	IsLocalUserDeafened          func(id, *bool) code

	GetUserHash           func(id, conn, user, *unsafe.Pointer) code
	GetServerHash         func(id, conn, *unsafe.Pointer) code
	GetUserComment        func(id, conn, user, *unsafe.Pointer) code
	GetChannelDescription func(id, conn, channel, *unsafe.Pointer) code

	RequestLocalUserTransmissionMode     func(id, entities.TransmissionMode) code
	RequestUserMove                      func(id, conn, user, channel, *byte) code
	RequestMicrophoneActivationOverwrite func(id, bool) code
	RequestLocalMute                     func(id, conn, user, bool) code
	RequestLocalUserMute                 func(id, bool) code
	RequestLocalUserDeaf                 func(id, bool) code
	RequestSetLocalUserComment           func(id, conn, *byte) code

	FindUserByName    func(id, conn, *byte, *user) code
	FindChannelByName func(id, conn, *byte, *channel) code

	SendData   func(id, conn, *user, uintptr, *byte, uintptr, *byte) code
	Log        func(id, *byte) code
	PlaySample func(id, *byte) code
}

// Missing returns the names of the function fields the host left nil.
func (t *Table) Missing() []string {
	var missing []string
	v := reflect.ValueOf(t).Elem()
	ty := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.Func && f.IsNil() {
			missing = append(missing, ty.Field(i).Name)
		}
	}
	return missing
}
