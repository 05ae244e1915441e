package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("Should build a json logger at the requested level", func(t *testing.T) {
		l, err := New("warn", "json")
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("Should build a console logger", func(t *testing.T) {
		l, err := New("debug", "console")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Should reject unknown levels and formats", func(t *testing.T) {
		_, err := New("loud", "json")
		assert.Error(t, err)

		_, err = New("info", "xml")
		assert.Error(t, err)
	})
}
