package plugintest

import (
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/internal/abi"
)

// call runs fn under the host lock once the injected failures and the
// identity check passed.
func (h *FakeHost) call(op string, id pid, fn func() code) code {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st := h.check(op, id); st != entities.OK {
		return st
	}
	return fn()
}

func readString(p *byte) (string, bool) {
	s, err := abi.GoString(unsafe.Pointer(p))
	return s, err == nil
}

// Table returns the host function table bound to this fake.
func (h *FakeHost) Table() abi.Table {
	return abi.Table{
		FreeMemory: func(id pid, ptr unsafe.Pointer) code {
			return h.call("freeMemory", id, func() code {
				if _, ok := h.allocs[ptr]; !ok {
					return entities.ErrPointerNotFound
				}
				delete(h.allocs, ptr)
				h.frees++
				return entities.OK
			})
		},

		GetActiveServerConnection: func(id pid, out *conn) code {
			return h.call("getActiveServerConnection", id, func() code {
				if h.Connection < 0 {
					return entities.ErrNoActiveConnection
				}
				*out = h.Connection
				return entities.OK
			})
		},
		IsConnectionSynchronized: func(id pid, c conn, out *bool) code {
			return h.call("isConnectionSynchronized", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				*out = h.Synced
				return entities.OK
			})
		},
		GetLocalUserID: func(id pid, c conn, out *uid) code {
			return h.call("getLocalUserID", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				*out = h.LocalUser
				return entities.OK
			})
		},
		GetUserName: func(id pid, c conn, u uid, out *unsafe.Pointer) code {
			return h.call("getUserName", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				*out = h.allocString(usr.Name)
				return entities.OK
			})
		},
		GetChannelName: func(id pid, c conn, ch cid, out *unsafe.Pointer) code {
			return h.call("getChannelName", id, func() code {
				chn, st := h.channel(c, ch)
				if st != entities.OK {
					return st
				}
				*out = h.allocString(chn.Name)
				return entities.OK
			})
		},
		GetAllUsers: func(id pid, c conn, out *unsafe.Pointer, n *uintptr) code {
			return h.call("getAllUsers", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				*out, *n = allocArray(h, h.sortedUsers(nil))
				return entities.OK
			})
		},
		GetAllChannels: func(id pid, c conn, out *unsafe.Pointer, n *uintptr) code {
			return h.call("getAllChannels", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				*out, *n = allocArray(h, h.sortedChannels())
				return entities.OK
			})
		},
		GetChannelOfUser: func(id pid, c conn, u uid, out *cid) code {
			return h.call("getChannelOfUser", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				*out = usr.Channel
				return entities.OK
			})
		},
		GetUsersInChannel: func(id pid, c conn, ch cid, out *unsafe.Pointer, n *uintptr) code {
			return h.call("getUsersInChannel", id, func() code {
				if _, st := h.channel(c, ch); st != entities.OK {
					return st
				}
				*out, *n = allocArray(h, h.sortedUsers(func(u *User) bool { return u.Channel == ch }))
				return entities.OK
			})
		},

		GetLocalUserTransmissionMode: func(id pid, out *entities.TransmissionMode) code {
			return h.call("getLocalUserTransmissionMode", id, func() code {
				*out = h.mode
				return entities.OK
			})
		},
		IsUserLocallyMuted: func(id pid, c conn, u uid, out *bool) code {
			return h.call("isUserLocallyMuted", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				*out = usr.LocallyMuted
				return entities.OK
			})
		},
		IsLocalUserMuted: func(id pid, out *bool) code {
			return h.call("isLocalUserMuted", id, func() code {
				*out = h.muted
				return entities.OK
			})
		},
		IsLocalUserDeafened: func(id pid, out *bool) code {
			return h.call("isLocalUserDeafened", id, func() code {
				*out = h.deafened
				return entities.OK
			})
		},

		GetUserHash: func(id pid, c conn, u uid, out *unsafe.Pointer) code {
			return h.call("getUserHash", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				*out = h.allocString(usr.Hash)
				return entities.OK
			})
		},
		GetServerHash: func(id pid, c conn, out *unsafe.Pointer) code {
			return h.call("getServerHash", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				*out = h.allocString(h.ServerHash)
				return entities.OK
			})
		},
		GetUserComment: func(id pid, c conn, u uid, out *unsafe.Pointer) code {
			return h.call("getUserComment", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				*out = h.allocString(usr.Comment)
				return entities.OK
			})
		},
		GetChannelDescription: func(id pid, c conn, ch cid, out *unsafe.Pointer) code {
			return h.call("getChannelDescription", id, func() code {
				chn, st := h.channel(c, ch)
				if st != entities.OK {
					return st
				}
				*out = h.allocString(chn.Description)
				return entities.OK
			})
		},

		RequestLocalUserTransmissionMode: func(id pid, mode entities.TransmissionMode) code {
			return h.call("requestLocalUserTransmissionMode", id, func() code {
				if mode < entities.TransmissionContinuous || mode > entities.TransmissionPushToTalk {
					return entities.ErrUnknownTransmissionMode
				}
				h.mode = mode
				return entities.OK
			})
		},
		RequestUserMove: func(id pid, c conn, u uid, ch cid, password *byte) code {
			return h.call("requestUserMove", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				if _, st := h.channel(c, ch); st != entities.OK {
					return st
				}
				mv := Move{Connection: c, User: u, Channel: ch, HasPassword: password != nil}
				if password != nil {
					pw, ok := readString(password)
					if !ok {
						return entities.ErrGeneric
					}
					mv.Password = pw
				}
				h.moves = append(h.moves, mv)
				usr.Channel = ch
				return entities.OK
			})
		},
		RequestMicrophoneActivationOverwrite: func(id pid, activate bool) code {
			return h.call("requestMicrophoneActivationOverwrite", id, func() code {
				h.micOverwrite = activate
				return entities.OK
			})
		},
		RequestLocalMute: func(id pid, c conn, u uid, muted bool) code {
			return h.call("requestLocalMute", id, func() code {
				usr, st := h.user(c, u)
				if st != entities.OK {
					return st
				}
				if u == h.LocalUser {
					return entities.ErrInvalidMuteTarget
				}
				usr.LocallyMuted = muted
				return entities.OK
			})
		},
		RequestLocalUserMute: func(id pid, muted bool) code {
			return h.call("requestLocalUserMute", id, func() code {
				h.muted = muted
				return entities.OK
			})
		},
		RequestLocalUserDeaf: func(id pid, deafened bool) code {
			return h.call("requestLocalUserDeaf", id, func() code {
				h.deafened = deafened
				return entities.OK
			})
		},
		RequestSetLocalUserComment: func(id pid, c conn, comment *byte) code {
			return h.call("requestSetLocalUserComment", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				s, ok := readString(comment)
				if !ok {
					return entities.ErrGeneric
				}
				h.comment = s
				return entities.OK
			})
		},

		FindUserByName: func(id pid, c conn, name *byte, out *uid) code {
			return h.call("findUserByName", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				n, _ := readString(name)
				for _, u := range h.sortedUsers(nil) {
					if h.users[u].Name == n {
						*out = u
						return entities.OK
					}
				}
				return entities.ErrUserNotFound
			})
		},
		FindChannelByName: func(id pid, c conn, name *byte, out *cid) code {
			return h.call("findChannelByName", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				n, _ := readString(name)
				for _, ch := range h.sortedChannels() {
					if h.channels[ch].Name == n {
						*out = ch
						return entities.OK
					}
				}
				return entities.ErrChannelNotFound
			})
		},

		SendData: func(id pid, c conn, users *uid, userCount uintptr, data *byte, dataLen uintptr, dataID *byte) code {
			return h.call("sendData", id, func() code {
				if st := h.connection(c); st != entities.OK {
					return st
				}
				kind, ok := readString(dataID)
				if !ok {
					return entities.ErrGeneric
				}
				sd := SentData{Connection: c, DataID: kind}
				if users != nil && userCount > 0 {
					sd.Users = append([]uid(nil), unsafe.Slice(users, userCount)...)
				}
				if data != nil && dataLen > 0 {
					sd.Data = append([]byte(nil), unsafe.Slice(data, dataLen)...)
				}
				h.sent = append(h.sent, sd)
				return entities.OK
			})
		},
		Log: func(id pid, message *byte) code {
			return h.call("log", id, func() code {
				m, ok := readString(message)
				if !ok {
					return entities.ErrGeneric
				}
				h.logs = append(h.logs, m)
				return entities.OK
			})
		},
		PlaySample: func(id pid, path *byte) code {
			return h.call("playSample", id, func() code {
				p, ok := readString(path)
				if !ok || p == "" {
					return entities.ErrInvalidSample
				}
				h.samples = append(h.samples, p)
				return entities.OK
			})
		},
	}
}
