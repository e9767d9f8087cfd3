package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelID_Check(t *testing.T) {
	tests := []struct {
		in    ChannelID
		want  ChannelID
		valid bool
	}{
		{in: NoChannel, valid: false},
		{in: -7, valid: false},
		{in: 0, want: 0, valid: true},
		{in: 12, want: 12, valid: true},
	}
	for _, tt := range tests {
		got, ok := tt.in.Check().Get()
		assert.Equal(t, tt.valid, ok, "channel %d", tt.in)
		assert.Equal(t, tt.want, got, "channel %d", tt.in)
	}
}

func TestOptional(t *testing.T) {
	var zero Optional[UserID]
	assert.False(t, zero.Valid())
	assert.Equal(t, UserID(9), zero.OrElse(9))

	some := Some[UserID](3)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, UserID(3), v)
	assert.Equal(t, UserID(3), some.OrElse(9))
	assert.Equal(t, zero, None[UserID]())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "EC_OK", OK.String())
	assert.Equal(t, "EC_USER_NOT_FOUND", ErrUserNotFound.String())
	assert.Equal(t, "EC_INTERNAL_ERROR", ErrInternal.String())
	assert.Contains(t, ErrorCode(99).String(), "99")
	assert.True(t, OK.IsOK())
	assert.False(t, ErrGeneric.IsOK())
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2.3", want: Version{1, 2, 3}},
		{in: "v1.0.2", want: Version{1, 0, 2}},
		{in: "2.1", want: Version{2, 1, 0}},
		{in: "4", want: Version{4, 0, 0}},
		{in: "", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "1.-2.3", wantErr: true},
		{in: "1.x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "1.0.2", APIVersion.String())
	assert.True(t, Version{}.IsZero())
	assert.True(t, Version{1, 0, 0}.Less(Version{1, 0, 1}))
	assert.True(t, Version{1, 9, 9}.Less(Version{2, 0, 0}))
	assert.False(t, APIVersion.Less(APIVersion))
}

func TestDescriptor_WithDefaults(t *testing.T) {
	d := Descriptor{Name: "x"}.WithDefaults()
	assert.Equal(t, DefaultPluginVersion, d.Version)
	assert.Equal(t, APIVersion, d.APIVersion)

	pinned := Descriptor{Version: Version{3, 0, 0}, APIVersion: Version{1, 0, 0}}.WithDefaults()
	assert.Equal(t, Version{3, 0, 0}, pinned.Version)
	assert.Equal(t, Version{1, 0, 0}, pinned.APIVersion)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "talking", TalkingStateTalking.String())
	assert.Equal(t, "push_to_talk", TransmissionPushToTalk.String())
}
