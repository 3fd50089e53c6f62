package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/pkg"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
	"github.com/rocketscienceinc/gomoku-backend/transport/rest"
	"github.com/rocketscienceinc/gomoku-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	ledgerRepo, endedGameRepo, closeStorage, err := initStorage(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	store := state.New(conf.Gomoku.Limits())

	identityService := service.NewIdentityService(pkg.CryptoRandomness{}, pkg.NewBlockClock())
	turnArbiter := service.NewTurnArbiter()
	boardEngine := service.NewBoardEngine(turnArbiter)
	sessionRegistry := service.NewSessionRegistry(conf.Gomoku.MaxPlayers, identityService, boardEngine, turnArbiter)
	escrow := service.NewEscrow(logger, ledgerRepo, boardEngine, turnArbiter, conf.Gomoku.OpenFee, conf.Gomoku.SettlementFeeBP)
	authService := service.NewAuthService(conf.JWTSecretKey)

	hub := websocket.NewHub(logger)

	gameManager := usecase.NewGameManager(logger, store, sessionRegistry, boardEngine, turnArbiter, escrow, hub, endedGameRepo)

	handlers := rest.NewHandlers(logger, gameManager, ledgerRepo, conf.Gomoku.InitialBalance)
	router := rest.NewRouter(handlers, authService, hub)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// initStorage - Redis backed ledger and ended games mirror, or an in-memory ledger
// without a mirror when Redis is disabled.
func initStorage(
	ctx context.Context,
	log *slog.Logger,
	conf *config.Config,
) (repository.LedgerRepository, repository.EndedGameRepository, func(), error) {
	if conf.Redis.Disabled {
		log.Warn("Redis disabled, balances are kept in memory")
		return repository.NewMemoryLedger(), nil, func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	ledgerRepo := repository.NewLedgerRepository(redisStorage.Connection)
	endedGameRepo := repository.NewEndedGameRepository(redisStorage.Connection)

	return ledgerRepo, endedGameRepo, closeStorage, nil
}
