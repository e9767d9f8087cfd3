package entities

import "fmt"

// ErrorCode is the host's status enumeration returned by every API function.
type ErrorCode int32

const (
	ErrInternal                   ErrorCode = -2
	ErrGeneric                    ErrorCode = -1
	OK                            ErrorCode = 0
	ErrPointerNotFound            ErrorCode = 1
	ErrNoActiveConnection         ErrorCode = 2
	ErrUserNotFound               ErrorCode = 3
	ErrChannelNotFound            ErrorCode = 4
	ErrConnectionNotFound         ErrorCode = 5
	ErrUnknownTransmissionMode    ErrorCode = 6
	ErrAudioNotAvailable          ErrorCode = 7
	ErrInvalidSample              ErrorCode = 8
	ErrInvalidPluginID            ErrorCode = 9
	ErrInvalidMuteTarget          ErrorCode = 10
	ErrConnectionUnsynchronized   ErrorCode = 11
	ErrInvalidAPIVersion          ErrorCode = 12
	ErrUnsynchronizedBlob         ErrorCode = 13
	ErrUnknownSettingsKey         ErrorCode = 14
	ErrWrongSettingsType          ErrorCode = 15
	ErrSettingWasRemoved          ErrorCode = 16
	ErrDataTooBig                 ErrorCode = 17
	ErrDataIDTooLong              ErrorCode = 18
	ErrAPIRequestTimeout          ErrorCode = 19
	ErrOperationUnsupportedServer ErrorCode = 20
)

var errorCodeNames = map[ErrorCode]string{
	ErrInternal:                   "EC_INTERNAL_ERROR",
	ErrGeneric:                    "EC_GENERIC_ERROR",
	OK:                            "EC_OK",
	ErrPointerNotFound:            "EC_POINTER_NOT_FOUND",
	ErrNoActiveConnection:         "EC_NO_ACTIVE_CONNECTION",
	ErrUserNotFound:               "EC_USER_NOT_FOUND",
	ErrChannelNotFound:            "EC_CHANNEL_NOT_FOUND",
	ErrConnectionNotFound:         "EC_CONNECTION_NOT_FOUND",
	ErrUnknownTransmissionMode:    "EC_UNKNOWN_TRANSMISSION_MODE",
	ErrAudioNotAvailable:          "EC_AUDIO_NOT_AVAILABLE",
	ErrInvalidSample:              "EC_INVALID_SAMPLE",
	ErrInvalidPluginID:            "EC_INVALID_PLUGIN_ID",
	ErrInvalidMuteTarget:          "EC_INVALID_MUTE_TARGET",
	ErrConnectionUnsynchronized:   "EC_CONNECTION_UNSYNCHRONIZED",
	ErrInvalidAPIVersion:          "EC_INVALID_API_VERSION",
	ErrUnsynchronizedBlob:         "EC_UNSYNCHRONIZED_BLOB",
	ErrUnknownSettingsKey:         "EC_UNKNOWN_SETTINGS_KEY",
	ErrWrongSettingsType:          "EC_WRONG_SETTINGS_TYPE",
	ErrSettingWasRemoved:          "EC_SETTING_WAS_REMOVED",
	ErrDataTooBig:                 "EC_DATA_TOO_BIG",
	ErrDataIDTooLong:              "EC_DATA_ID_TOO_LONG",
	ErrAPIRequestTimeout:          "EC_API_REQUEST_TIMEOUT",
	ErrOperationUnsupportedServer: "EC_OPERATION_UNSUPPORTED_BY_SERVER",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("EC_UNKNOWN(%d)", int32(c))
}

// IsOK reports whether c is the success code.
func (c ErrorCode) IsOK() bool {
	return c == OK
}
