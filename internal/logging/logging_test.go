package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level     string
		wantDebug bool
	}{
		{"DEVELOPMENT", true},
		{"development", true},
		{"PRODUCTION", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			log, err := New(tc.level)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDebug, log.Core().Enabled(zapcore.DebugLevel))
			assert.Same(t, log, zap.L())
		})
	}
}
