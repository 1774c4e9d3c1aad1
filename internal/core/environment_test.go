package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	require.Equal(t, Production, ParseEnvironment("production"))
	require.Equal(t, Staging, ParseEnvironment(" Staging "))
	require.Equal(t, Testing, ParseEnvironment("testing"))
	require.Equal(t, Development, ParseEnvironment("qa"))
	require.True(t, Production.IsProduction())
	require.False(t, Development.IsProduction())
}

func TestParseMode(t *testing.T) {
	require.Equal(t, Generative, ParseMode("generative"))
	require.Equal(t, Generative, ParseMode("Gemini"))
	require.Equal(t, Rules, ParseMode("rules"))
	require.Equal(t, Rules, ParseMode(""))
}
