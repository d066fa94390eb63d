package serial

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	assert.Equal(t, DefaultBaud, cfg.Baud)
	assert.Equal(t, 100, cfg.ReadTimeout)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, ErrNoDevice)

	_, err = Open(&Config{})
	assert.ErrorIs(t, err, ErrNoDevice)

	missing := filepath.Join(t.TempDir(), "ttyNOPE")
	_, err = Open(DefaultConfig(missing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}
