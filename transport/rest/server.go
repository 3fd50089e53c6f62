package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type wsHandler interface {
	HandleWS(ctx *gin.Context)
}

// NewRouter - every route except /ping and /ws needs a bearer token.
func NewRouter(handlers *Handlers, auth authService, ws wsHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/ping", pingHandler)
	router.GET("/ws", ws.HandleWS)

	api := router.Group("/", authMiddleware(auth))

	api.POST("/accounts", handlers.CreateAccount)
	api.GET("/accounts/me", handlers.Balance)

	api.POST("/sessions", handlers.Open)
	api.POST("/sessions/open-and-join", handlers.OpenAndJoin)
	api.POST("/sessions/:id/join", handlers.Join)
	api.POST("/sessions/start", handlers.Start)
	api.POST("/sessions/play", handlers.Play)

	api.GET("/sessions/open", handlers.OpenSessions)
	api.GET("/sessions/started", handlers.StartedSessions)
	api.GET("/sessions/:id", handlers.Session)
	api.GET("/sessions/:id/board", handlers.Board)

	api.GET("/ended", handlers.EndedGames)
	api.GET("/ended/:id", handlers.EndedGame)

	return router
}

// Start - serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
