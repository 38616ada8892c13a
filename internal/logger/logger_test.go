package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"QUIET", LevelOff},
		{"debug", LevelVerbose},
		{" verbose ", LevelVerbose},
		{"info", LevelNormal},
		{"", LevelNormal},
		{"garbage", LevelNormal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf, WithJSON())

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	log.SetLevel(LevelVerbose)
	assert.Equal(t, LevelVerbose, log.GetLevel())
	log.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	buf.Reset()
	log.SetLevel(LevelOff)
	log.Error("silenced")
	assert.Empty(t, buf.String())
}

func TestComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf, WithJSON()).Component("fatsecret")

	log.Warn("token refresh failed")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "fatsecret", entry["component"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "token refresh failed", entry["message"])
}
