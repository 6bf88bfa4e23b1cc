package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_LevelsAndEnvironments(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := New("info", env)
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zap.DebugLevel))
		assert.True(t, log.Core().Enabled(zap.InfoLevel))
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "development")
	require.Error(t, err)
}

func TestWithComponent_TagsEveryEntry(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	log := WithComponent(zap.New(core), "auth")

	log.Info("something happened")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "auth", entries[0].ContextMap()["component"])
}
