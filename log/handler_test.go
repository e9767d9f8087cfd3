package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	lines []string
	err   error
}

func (s *recordingSink) Log(message string) error {
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, message)
	return nil
}

func TestHostHandler_FallbackBeforeAttach(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithFallback(&buf)))

	logger.Info("loading", "plugin", "echo")

	assert.Equal(t, "INFO loading plugin=echo\n", buf.String())
}

func TestHostHandler_AttachAndDetach(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(WithFallback(&buf), WithPrefix("echo"))
	logger := slog.New(h)
	sink := &recordingSink{}

	h.Attach(sink)
	logger.Info("joined", "channel", 4)
	h.Detach()
	logger.Info("left")

	require.Len(t, sink.lines, 1)
	assert.Equal(t, "echo: INFO joined channel=4", sink.lines[0])
	assert.Equal(t, "echo: INFO left\n", buf.String())
}

func TestHostHandler_SinkFailureFallsBack(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(WithFallback(&buf))
	h.Attach(&recordingSink{err: errors.New("embedded NUL")})

	slog.New(h).Warn("odd")

	assert.Equal(t, "WARN odd\n", buf.String())
}

func TestHostHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithFallback(&buf), WithLevel(slog.LevelWarn)))

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Error("shown")

	assert.Equal(t, "ERROR shown\n", buf.String())
}

func TestHostHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(WithFallback(&buf)))

	logger.With("plugin_id", 7).WithGroup("audio").Info("frame",
		"rate", 48000,
		"speech", true,
		"gain", 0.5,
		"took", 20*time.Millisecond,
		slog.Group("src", "user", uint64(3)),
		"note", "two words",
		"err", errors.New("boom"),
	)

	assert.Equal(t,
		`INFO frame plugin_id=7 audio.rate=48000 audio.speech=true audio.gain=0.5 audio.took=20ms audio.src.user=3 audio.note="two words" audio.err=boom`+"\n",
		buf.String())
}

func TestHostHandler_DerivedHandlersShareSink(t *testing.T) {
	h := NewHandler(WithFallback(&bytes.Buffer{}))
	child := slog.New(h).With("k", "v")
	sink := &recordingSink{}

	h.Attach(sink)
	child.Info("hi")

	assert.Equal(t, []string{"INFO hi k=v"}, sink.lines)
}

func TestHostHandler_SetPrefix(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(WithFallback(&buf), WithPrefix("old"))
	child := slog.New(h).WithGroup("g")

	h.SetPrefix("new")
	child.Info("renamed")

	assert.Equal(t, "new: INFO renamed\n", buf.String())
}

func TestHostHandler_AttachNilDetaches(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(WithFallback(&buf))
	h.Attach(&recordingSink{})
	h.Attach(nil)

	slog.New(h).Info("back")

	assert.Equal(t, "INFO back\n", buf.String())
}
