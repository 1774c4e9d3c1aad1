package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swasthya-bot/server/internal/core"
)

func TestInit_ProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Msg("hidden")
	Info().Str("sender", "whatsapp:+1").Msg("new subscriber")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "whatsapp:+1", entry["sender"])
	require.Equal(t, "new subscriber", entry["message"])
}

func TestInit_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Development, Level: "WARN", Output: &buf})
	t.Cleanup(func() { Init() })

	Info().Msg("dropped")
	require.Zero(t, buf.Len())
	Warn().Msg("kept")
	require.Contains(t, buf.String(), "kept")
}
