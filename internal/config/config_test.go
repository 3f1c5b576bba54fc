package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/game"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, game.DefaultSafetyBound, cfg.Duel.SafetyBound)
	assert.Equal(t, ":9999", cfg.Server.TCPAddr)
	assert.Equal(t, 400*time.Millisecond, cfg.Server.ActionDelay)

	side, err := cfg.Duel.Side()
	require.NoError(t, err)
	assert.Equal(t, game.PlayerB, side)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LENDAS_LOGGING_LEVEL", "debug")
	t.Setenv("LENDAS_DUEL_SEED", "42")
	t.Setenv("LENDAS_SERVER_ACTION_DELAY", "1s")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint64(42), cfg.Duel.Seed)
	assert.Equal(t, time.Second, cfg.Server.ActionDelay)
}

func TestFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lendas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  format: json
duel:
  seed: 7
  ai_side: p1
server:
  http_addr: ":9000"
`), 0o644))
	t.Setenv("LENDAS_DUEL_SEED", "8")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--config", path, "--seed", "9"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, uint64(9), cfg.Duel.Seed, "flags win over env and file")
	assert.Equal(t, ":9000", cfg.Server.HTTPAddr)
	side, _ := cfg.Duel.Side()
	assert.Equal(t, game.PlayerA, side)
}

func TestCommandFlags(t *testing.T) {
	flags := pflag.NewFlagSet("host", pflag.ContinueOnError)
	RegisterFlags(flags)
	flags.String("addr", ":9999", "listen address")
	flags.Duration("action-delay", 0, "AI delay")
	flags.Int("max-turns", 200, "turn limit")
	require.NoError(t, flags.Parse([]string{"--addr", ":7000", "--action-delay", "50ms"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.TCPAddr)
	assert.Equal(t, 50*time.Millisecond, cfg.Server.ActionDelay)
	assert.Equal(t, 200, cfg.Duel.MaxTurns, "unset flags keep the default")
}

func TestMissingConfigFile(t *testing.T) {
	t.Setenv("LENDAS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load(nil)
	assert.Error(t, err)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LENDAS_SERVER_TCP_ADDR=:7777\n"), 0o644))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("LENDAS_SERVER_TCP_ADDR") })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.TCPAddr)
}

func TestValidation(t *testing.T) {
	tests := map[string]string{
		"LENDAS_DUEL_AI_SIDE":      "p3",
		"LENDAS_DUEL_SAFETY_BOUND": "0",
		"LENDAS_LOGGING_FORMAT":    "xml",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "warn", Format: "json"}}
	z, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, z.Core().Enabled(zap.InfoLevel))
	assert.True(t, z.Core().Enabled(zap.WarnLevel))
}
