package entities

// PluginID is the identity token the host assigns to a loaded plugin. It is the
// first argument of every call into the host API.
type PluginID uint32

// ConnectionID identifies a server connection.
type ConnectionID int32

// UserID identifies a user on a connection.
type UserID uint32

// ChannelID identifies a channel on a connection. Negative values mean "no channel".
type ChannelID int32

// NoChannel is the sentinel the host uses when there is no channel.
const NoChannel ChannelID = -1

// Check translates the host sentinel into an Optional.
func (c ChannelID) Check() Optional[ChannelID] {
	if c < 0 {
		return None[ChannelID]()
	}
	return Some(c)
}

// KeyCode is a host key code delivered by key events.
type KeyCode uint32

// TalkingState describes whether a user is currently transmitting.
type TalkingState int32

const (
	TalkingStateInvalid TalkingState = iota - 1
	TalkingStatePassive
	TalkingStateTalking
	TalkingStateWhispering
	TalkingStateShouting
	TalkingStateTalkingMuted
)

func (s TalkingState) String() string {
	switch s {
	case TalkingStatePassive:
		return "passive"
	case TalkingStateTalking:
		return "talking"
	case TalkingStateWhispering:
		return "whispering"
	case TalkingStateShouting:
		return "shouting"
	case TalkingStateTalkingMuted:
		return "talking_muted"
	default:
		return "invalid"
	}
}

// TransmissionMode is the local user's voice transmission mode.
type TransmissionMode int32

const (
	TransmissionContinuous TransmissionMode = iota
	TransmissionVoiceActivation
	TransmissionPushToTalk
)

func (m TransmissionMode) String() string {
	switch m {
	case TransmissionContinuous:
		return "continuous"
	case TransmissionVoiceActivation:
		return "voice_activation"
	case TransmissionPushToTalk:
		return "push_to_talk"
	default:
		return "unknown"
	}
}

// Features is the bit set of plugin features the host may activate.
type Features uint32

const (
	FeatureNone       Features = 0
	FeaturePositional Features = 1 << 0
	FeatureAudio      Features = 1 << 1
)
