package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerToggle(t *testing.T) {
	t.Cleanup(EnableLogger)

	DisableLogger()
	assert.False(t, isEnabled)
	LogOutput("dropped while silenced")

	EnableLogger()
	assert.True(t, isEnabled)
}
