package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

// maxPlayers - board marks are one byte and 0 means an empty cell.
const maxPlayers = 255

const basisPoints = 10000

var ErrInvalidGomokuConfig = errors.New("invalid gomoku config")

type Config struct {
	LogLevel     string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	JWTSecretKey string `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY" env-required:"true"`
	Redis        Redis  `yaml:"redis"`
	Gomoku       Gomoku `yaml:"gomoku"`
}

// Redis - with Disabled set the ledger lives in memory and ended games are not mirrored.
type Redis struct {
	Disabled bool   `yaml:"disabled" env:"REDIS_DISABLED" env-default:"false"`
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Gomoku struct {
	MaxPlayers         int    `yaml:"max-players" env:"GOMOKU_MAX_PLAYERS" env-default:"2"`
	MaxOpenSessions    int    `yaml:"max-open-sessions" env:"GOMOKU_MAX_OPEN_SESSIONS" env-default:"10"`
	MaxStartedSessions int    `yaml:"max-started-sessions" env:"GOMOKU_MAX_STARTED_SESSIONS" env-default:"10"`
	MaxEndedGames      int    `yaml:"max-ended-games" env:"GOMOKU_MAX_ENDED_GAMES" env-default:"1000"`
	OpenFee            uint64 `yaml:"open-fee" env:"GOMOKU_OPEN_FEE" env-default:"0"`
	SettlementFeeBP    uint64 `yaml:"settlement-fee-bp" env:"GOMOKU_SETTLEMENT_FEE_BP" env-default:"100"`
	InitialBalance     uint64 `yaml:"initial-balance" env:"GOMOKU_INITIAL_BALANCE" env-default:"1000"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Gomoku.Validate(); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Gomoku) Limits() state.Limits {
	return state.Limits{
		MaxOpenSessions:    that.MaxOpenSessions,
		MaxStartedSessions: that.MaxStartedSessions,
		MaxEndedGames:      that.MaxEndedGames,
	}
}

// Validate - rejects values the board, the store or settlement cannot work with.
func (that *Gomoku) Validate() error {
	if that.MaxPlayers < 1 || that.MaxPlayers > maxPlayers {
		return fmt.Errorf("%w: max-players must be in [1, %d], got %d", ErrInvalidGomokuConfig, maxPlayers, that.MaxPlayers)
	}

	capacities := []struct {
		key   string
		value int
	}{
		{"max-open-sessions", that.MaxOpenSessions},
		{"max-started-sessions", that.MaxStartedSessions},
		{"max-ended-games", that.MaxEndedGames},
	}
	for _, capacity := range capacities {
		if capacity.value < 1 {
			return fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalidGomokuConfig, capacity.key, capacity.value)
		}
	}

	if that.SettlementFeeBP > basisPoints {
		return fmt.Errorf("%w: settlement-fee-bp must be at most %d, got %d", ErrInvalidGomokuConfig, basisPoints, that.SettlementFeeBP)
	}

	return nil
}
