package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Fills defaults for missing keys", func(t *testing.T) {
		// Given: a config with only the secret set
		path := writeConfig(t, "jwt-secret-key: s3cret\n")

		// When: it is loaded
		conf := MustLoad(path)

		// Then: every default applies
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 2, conf.Gomoku.MaxPlayers)
		assert.Equal(t, 10, conf.Gomoku.Limits().MaxOpenSessions)
		assert.Equal(t, 1000, conf.Gomoku.Limits().MaxEndedGames)
		assert.Equal(t, uint64(100), conf.Gomoku.SettlementFeeBP)
		assert.Zero(t, conf.Gomoku.OpenFee)
		assert.Equal(t, uint64(1000), conf.Gomoku.InitialBalance)
		assert.False(t, conf.Redis.Disabled)
	})

	t.Run("Reads the gomoku section", func(t *testing.T) {
		path := writeConfig(t, `
jwt-secret-key: s3cret
gomoku:
  max-players: 3
  open-fee: 5
  settlement-fee-bp: 250
`)

		conf := MustLoad(path)

		assert.Equal(t, 3, conf.Gomoku.MaxPlayers)
		assert.Equal(t, uint64(5), conf.Gomoku.OpenFee)
		assert.Equal(t, uint64(250), conf.Gomoku.SettlementFeeBP)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		t.Setenv("GOMOKU_MAX_OPEN_SESSIONS", "42")
		path := writeConfig(t, "jwt-secret-key: s3cret\n")

		conf := MustLoad(path)

		assert.Equal(t, 42, conf.Gomoku.MaxOpenSessions)
	})

	t.Run("Panics without a secret", func(t *testing.T) {
		path := writeConfig(t, "log-level: debug\n")

		assert.Panics(t, func() { MustLoad(path) })
	})
}

func TestGomoku_Validate(t *testing.T) {
	valid := func() Gomoku {
		return Gomoku{MaxPlayers: 2, MaxOpenSessions: 10, MaxStartedSessions: 10, MaxEndedGames: 1000, SettlementFeeBP: 100}
	}

	t.Run("Defaults are valid", func(t *testing.T) {
		conf := valid()

		require.NoError(t, conf.Validate())
	})

	t.Run("Bounds are inclusive", func(t *testing.T) {
		conf := valid()
		conf.MaxPlayers = 255
		conf.MaxOpenSessions = 1
		conf.MaxStartedSessions = 1
		conf.MaxEndedGames = 1
		conf.SettlementFeeBP = 10000

		require.NoError(t, conf.Validate())
	})

	tests := []struct {
		name   string
		modify func(conf *Gomoku)
	}{
		{"No players", func(conf *Gomoku) { conf.MaxPlayers = 0 }},
		{"More players than board marks", func(conf *Gomoku) { conf.MaxPlayers = 256 }},
		{"Negative open sessions", func(conf *Gomoku) { conf.MaxOpenSessions = -1 }},
		{"Zero started sessions", func(conf *Gomoku) { conf.MaxStartedSessions = 0 }},
		{"Negative ended games", func(conf *Gomoku) { conf.MaxEndedGames = -1 }},
		{"Fee above the whole pot", func(conf *Gomoku) { conf.SettlementFeeBP = 10001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := valid()
			tt.modify(&conf)

			require.ErrorIs(t, conf.Validate(), ErrInvalidGomokuConfig)
		})
	}
}

func TestMustLoad_RejectsInvalidGomoku(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Negative max-open-sessions", "max-open-sessions: -1"},
		{"Negative max-started-sessions", "max-started-sessions: -1"},
		{"Negative max-ended-games", "max-ended-games: -1"},
		{"Too many players", "max-players: 256"},
		{"Fee over 100 percent", "settlement-fee-bp: 10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "jwt-secret-key: s3cret\ngomoku:\n  "+tt.body+"\n")

			assert.Panics(t, func() { MustLoad(path) })
		})
	}
}
