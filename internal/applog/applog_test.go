package applog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDisablesWhenNoSinkConfigured(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{Enabled: true}
	assert.NoError(cfg.Validate())
	assert.False(cfg.Enabled)
}

func TestValidateKeepsEnabledWithConsole(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{Enabled: true, Console: true}
	assert.NoError(cfg.Validate())
	assert.True(cfg.Enabled)
}

func TestValidateNilConfig(t *testing.T) {
	assert := assert.New(t)

	var cfg *Config
	assert.Error(cfg.Validate())
}

func TestUpdateCommandLineOnlyAppliesChangedFlags(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{Enabled: false, Console: false, Verbose: false, FileName: ""}
	cfg.UpdateCommandLine(map[string]bool{"log.enabled": true}, CommandLineValues{
		Enabled:  true,
		Console:  true,
		Verbose:  true,
		FileName: "should-not-apply.log",
	})

	assert.True(cfg.Enabled)
	assert.False(cfg.Console) // "log.console" was not in the changed set
	assert.False(cfg.Verbose)
	assert.Empty(cfg.FileName)
}

func TestNewDisabledReturnsNopLogger(t *testing.T) {
	assert := assert.New(t)

	logger, closeFunc, err := New(&Config{Enabled: false})
	assert.NoError(err)
	require.NotNil(t, closeFunc)
	closeFunc()
	assert.NotNil(logger)
}

func TestNewWritesToConfiguredFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	fn := filepath.Join(dir, "app.log")

	logger, closeFunc, err := New(&Config{Enabled: true, FileName: fn})
	require.NoError(t, err)
	defer closeFunc()

	logger.Info().Msg("hello")

	contents, err := os.ReadFile(fn)
	assert.NoError(err)
	assert.Contains(string(contents), "hello")
}
