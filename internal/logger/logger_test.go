package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.DebugLevel, true)

	log.Info("Pipeline", "image loaded", map[string]interface{}{"width": 640})
	log.Error("Pipeline", errors.New("decode failed"), map[string]interface{}{"path": "a.png"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "Pipeline", lines[0]["component"])
	assert.Equal(t, "image loaded", lines[0]["message"])
	assert.EqualValues(t, 640, lines[0]["width"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "decode failed", lines[1]["error"])
	assert.Equal(t, "a.png", lines[1]["path"])
	assert.Equal(t, "Pipeline failed", lines[1]["message"])
}

func TestZerologAdapterLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel, true)

	log.Debug("Gaussian", "kernel built", nil)
	log.Info("Gaussian", "done", nil)
	log.Warning("Gaussian", "amplitude ignored", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
}

func TestZerologAdapterSortsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel, true)

	log.Info("Runner", "blur done", map[string]interface{}{"zeta": 1, "alpha": 2, "mid": 3})

	line := buf.String()
	a, m, z := strings.Index(line, `"alpha"`), strings.Index(line, `"mid"`), strings.Index(line, `"zeta"`)
	require.True(t, a >= 0 && m >= 0 && z >= 0, line)
	assert.Less(t, a, m)
	assert.Less(t, m, z)
}

func TestZerologAdapterConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel, false)

	log.Info("Pipeline", "image loaded", map[string]interface{}{"width": 640})
	log.Debug("Pipeline", "hidden", nil)

	out := buf.String()
	assert.Contains(t, out, "image loaded")
	assert.Contains(t, out, "component=Pipeline")
	assert.Contains(t, out, "width=640")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNoOpLogger(t *testing.T) {
	var log Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		log.Info("x", "y", nil)
		log.Error("x", errors.New("z"), nil)
	})
}
