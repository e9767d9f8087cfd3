package api

import (
	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

// RequestLocalUserTransmissionMode asks the host to switch transmission mode.
func (a *API) RequestLocalUserTransmissionMode(mode entities.TransmissionMode) error {
	return abi.Check("requestLocalUserTransmissionMode", a.table.RequestLocalUserTransmissionMode(a.id, mode))
}

// RequestUserMove asks the server to move user into channel. An empty
// password is sent as no password.
func (a *API) RequestUserMove(conn entities.ConnectionID, user entities.UserID, channel entities.ChannelID, password string) error {
	var pw *byte
	if password != "" {
		var err error
		if pw, err = abi.CStringPtr("password", password); err != nil {
			return err
		}
	}
	return abi.Check("requestUserMove", a.table.RequestUserMove(a.id, conn, user, channel, pw))
}

// RequestMicrophoneActivationOverwrite forces the microphone on regardless of
// the transmission mode while activate is true.
func (a *API) RequestMicrophoneActivationOverwrite(activate bool) error {
	return abi.Check("requestMicrophoneActivationOverwrite", a.table.RequestMicrophoneActivationOverwrite(a.id, activate))
}

// RequestLocalMute mutes or unmutes user for the local user only.
func (a *API) RequestLocalMute(conn entities.ConnectionID, user entities.UserID, muted bool) error {
	return abi.Check("requestLocalMute", a.table.RequestLocalMute(a.id, conn, user, muted))
}

// RequestLocalUserMute mutes or unmutes the local user.
func (a *API) RequestLocalUserMute(muted bool) error {
	return abi.Check("requestLocalUserMute", a.table.RequestLocalUserMute(a.id, muted))
}

// RequestLocalUserDeaf deafens or undeafens the local user.
func (a *API) RequestLocalUserDeaf(deafened bool) error {
	return abi.Check("requestLocalUserDeaf", a.table.RequestLocalUserDeaf(a.id, deafened))
}

// RequestSetLocalUserComment sets the local user's comment on conn.
func (a *API) RequestSetLocalUserComment(conn entities.ConnectionID, comment string) error {
	c, err := abi.CStringPtr("comment", comment)
	if err != nil {
		return err
	}
	return abi.Check("requestSetLocalUserComment", a.table.RequestSetLocalUserComment(a.id, conn, c))
}

// FindUserByName looks a user up by name. A user that does not exist is
// reported as found == false with a nil error.
func (a *API) FindUserByName(conn entities.ConnectionID, name string) (entities.UserID, bool, error) {
	n, err := abi.CStringPtr("user name", name)
	if err != nil {
		return 0, false, err
	}
	slot := abi.NewSlot[entities.UserID]()
	status := a.table.FindUserByName(a.id, conn, n, slot.Addr())
	return lookup("findUserByName", slot, status, entities.ErrUserNotFound)
}

// FindChannelByName looks a channel up by name. A channel that does not exist
// is reported as found == false with a nil error.
func (a *API) FindChannelByName(conn entities.ConnectionID, name string) (entities.ChannelID, bool, error) {
	n, err := abi.CStringPtr("channel name", name)
	if err != nil {
		return 0, false, err
	}
	slot := abi.NewSlot[entities.ChannelID]()
	status := a.table.FindChannelByName(a.id, conn, n, slot.Addr())
	return lookup("findChannelByName", slot, status, entities.ErrChannelNotFound)
}

func lookup[T any](op string, slot *abi.Slot[T], status entities.ErrorCode, notFound entities.ErrorCode) (T, bool, error) {
	var zero T
	switch abi.Classify(status, notFound) {
	case abi.OutcomeOK:
		return slot.Value(), true, nil
	case abi.OutcomeAbsent:
		return zero, false, nil
	default:
		return zero, false, abi.Check(op, status)
	}
}

// SendData sends data tagged with dataID to the plugins of users on conn.
func (a *API) SendData(conn entities.ConnectionID, users []entities.UserID, data []byte, dataID string) error {
	id, err := abi.CStringPtr("data id", dataID)
	if err != nil {
		return err
	}
	var usersPtr *entities.UserID
	if len(users) > 0 {
		usersPtr = &users[0]
	}
	var dataPtr *byte
	if len(data) > 0 {
		dataPtr = &data[0]
	}
	status := a.table.SendData(a.id, conn, usersPtr, uintptr(len(users)), dataPtr, uintptr(len(data)), id)
	return abi.Check("sendData", status)
}

// Log writes message to the host's console.
func (a *API) Log(message string) error {
	m, err := abi.CStringPtr("log message", message)
	if err != nil {
		return err
	}
	return abi.Check("log", a.table.Log(a.id, m))
}

// PlaySample plays the audio file at path locally.
func (a *API) PlaySample(path string) error {
	p, err := abi.CStringPtr("sample path", path)
	if err != nil {
		return err
	}
	return abi.Check("playSample", a.table.PlaySample(a.id, p))
}
