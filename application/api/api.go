// Package api is the typed call surface plugin code uses to talk to the host.
//
// Every method prepends the plugin identity, marshals Go values into their
// host representation, classifies the returned status and releases any
// host-allocated memory before returning, on success and error paths alike.
package api

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

// API is the plugin's handle on the host function table. It is immutable
// after New and safe for concurrent use as far as the host API itself is.
type API struct {
	id    entities.PluginID
	table abi.Table
	rel   abi.Releaser
}

// New binds id to table. Every function in the table must be present: a
// missing entry means the host and this build disagree on the ABI, which is a
// construction-time contract violation rather than a per-call error.
func New(id entities.PluginID, table abi.Table) *API {
	if missing := table.Missing(); len(missing) > 0 {
		errors.Violation("api-table", "host API table is missing %s", strings.Join(missing, ", "))
	}
	return &API{
		id:    id,
		table: table,
		rel:   abi.NewReleaser(id, &table),
	}
}

// ID returns the plugin identity the host assigned.
func (a *API) ID() entities.PluginID {
	return a.id
}

// stringOut runs call with a pointer slot and decodes the host string it
// receives. The host memory is released before returning.
func (a *API) stringOut(op string, call func(*unsafe.Pointer) entities.ErrorCode) (string, error) {
	slot := abi.NewPointerSlot(a.rel)
	defer slot.Release()

	if err := abi.Check(op, call(slot.Addr())); err != nil {
		return "", err
	}
	s, err := abi.CommitOwned(slot).String()
	if err != nil {
		return "", fmt.Errorf("decode %s result: %w", op, err)
	}
	return s, nil
}

// arrayOut runs call with a pointer slot and a count cell and copies the
// host array out before releasing it.
func arrayOut[T any](a *API, op string, call func(*unsafe.Pointer, *uintptr) entities.ErrorCode) ([]T, error) {
	slot := abi.NewPointerSlot(a.rel)
	defer slot.Release()
	count := abi.NewSlot[uintptr]()

	if err := abi.Check(op, call(slot.Addr(), count.Addr())); err != nil {
		return nil, err
	}
	return abi.CopySlice[T](abi.CommitOwned(slot), count.Value()), nil
}

// valueOut runs call with a plain value slot.
func valueOut[T any](op string, call func(*T) entities.ErrorCode) (T, error) {
	slot := abi.NewSlot[T]()
	if err := abi.Check(op, call(slot.Addr())); err != nil {
		var zero T
		return zero, err
	}
	return slot.Value(), nil
}

// ActiveServerConnection returns the connection currently in focus.
func (a *API) ActiveServerConnection() (entities.ConnectionID, error) {
	return valueOut("getActiveServerConnection", func(out *entities.ConnectionID) entities.ErrorCode {
		return a.table.GetActiveServerConnection(a.id, out)
	})
}

// IsConnectionSynchronized reports whether the server finished syncing conn.
func (a *API) IsConnectionSynchronized(conn entities.ConnectionID) (bool, error) {
	return valueOut("isConnectionSynchronized", func(out *bool) entities.ErrorCode {
		return a.table.IsConnectionSynchronized(a.id, conn, out)
	})
}

// LocalUserID returns the local user's id on conn.
func (a *API) LocalUserID(conn entities.ConnectionID) (entities.UserID, error) {
	return valueOut("getLocalUserID", func(out *entities.UserID) entities.ErrorCode {
		return a.table.GetLocalUserID(a.id, conn, out)
	})
}

// UserName returns the display name of a user.
func (a *API) UserName(conn entities.ConnectionID, user entities.UserID) (string, error) {
	return a.stringOut("getUserName", func(out *unsafe.Pointer) entities.ErrorCode {
		return a.table.GetUserName(a.id, conn, user, out)
	})
}

// ChannelName returns the name of a channel.
func (a *API) ChannelName(conn entities.ConnectionID, channel entities.ChannelID) (string, error) {
	return a.stringOut("getChannelName", func(out *unsafe.Pointer) entities.ErrorCode {
		return a.table.GetChannelName(a.id, conn, channel, out)
	})
}

// AllUsers lists every user known on conn.
func (a *API) AllUsers(conn entities.ConnectionID) ([]entities.UserID, error) {
	return arrayOut[entities.UserID](a, "getAllUsers", func(users *unsafe.Pointer, n *uintptr) entities.ErrorCode {
		return a.table.GetAllUsers(a.id, conn, users, n)
	})
}

// AllChannels lists every channel on conn.
func (a *API) AllChannels(conn entities.ConnectionID) ([]entities.ChannelID, error) {
	return arrayOut[entities.ChannelID](a, "getAllChannels", func(channels *unsafe.Pointer, n *uintptr) entities.ErrorCode {
		return a.table.GetAllChannels(a.id, conn, channels, n)
	})
}

// ChannelOfUser returns the channel user is in.
func (a *API) ChannelOfUser(conn entities.ConnectionID, user entities.UserID) (entities.ChannelID, error) {
	return valueOut("getChannelOfUser", func(out *entities.ChannelID) entities.ErrorCode {
		return a.table.GetChannelOfUser(a.id, conn, user, out)
	})
}

// UsersInChannel lists the users in channel.
func (a *API) UsersInChannel(conn entities.ConnectionID, channel entities.ChannelID) ([]entities.UserID, error) {
	return arrayOut[entities.UserID](a, "getUsersInChannel", func(users *unsafe.Pointer, n *uintptr) entities.ErrorCode {
		return a.table.GetUsersInChannel(a.id, conn, channel, users, n)
	})
}

// LocalUserTransmissionMode returns how the local user transmits voice.
func (a *API) LocalUserTransmissionMode() (entities.TransmissionMode, error) {
	return valueOut("getLocalUserTransmissionMode", func(out *entities.TransmissionMode) entities.ErrorCode {
		return a.table.GetLocalUserTransmissionMode(a.id, out)
	})
}

// IsUserLocallyMuted reports whether the local user muted user for themselves.
func (a *API) IsUserLocallyMuted(conn entities.ConnectionID, user entities.UserID) (bool, error) {
	return valueOut("isUserLocallyMuted", func(out *bool) entities.ErrorCode {
		return a.table.IsUserLocallyMuted(a.id, conn, user, out)
	})
}

// IsLocalUserMuted reports whether the local user is muted.
func (a *API) IsLocalUserMuted() (bool, error) {
	return valueOut("isLocalUserMuted", func(out *bool) entities.ErrorCode {
		return a.table.IsLocalUserMuted(a.id, out)
	})
}

// IsLocalUserDeafened reports whether the local user is deafened.
func (a *API) IsLocalUserDeafened() (bool, error) {
	return valueOut("isLocalUserDeafened", func(out *bool) entities.ErrorCode {
		return a.table.IsLocalUserDeafened(a.id, out)
	})
}

// UserHash returns the certificate hash of user.
func (a *API) UserHash(conn entities.ConnectionID, user entities.UserID) (string, error) {
	return a.stringOut("getUserHash", func(out *unsafe.Pointer) entities.ErrorCode {
		return a.table.GetUserHash(a.id, conn, user, out)
	})
}

// ServerHash returns the hash identifying the server behind conn.
func (a *API) ServerHash(conn entities.ConnectionID) (string, error) {
	return a.stringOut("getServerHash", func(out *unsafe.Pointer) entities.ErrorCode {
		return a.table.GetServerHash(a.id, conn, out)
	})
}

// UserComment returns the comment user has set.
func (a *API) UserComment(conn entities.ConnectionID, user entities.UserID) (string, error) {
	return a.stringOut("getUserComment", func(out *unsafe.Pointer) entities.ErrorCode {
		return a.table.GetUserComment(a.id, conn, user, out)
	})
}

// ChannelDescription returns the description of channel.
func (a *API) ChannelDescription(conn entities.ConnectionID, channel entities.ChannelID) (string, error) {
	return a.stringOut("getChannelDescription", func(out *unsafe.Pointer) entities.ErrorCode {
		return a.table.GetChannelDescription(a.id, conn, channel, out)
	})
}
