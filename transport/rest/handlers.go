package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type gameManager interface {
	Open(ctx context.Context, caller string, stake uint64) (entity.Session, error)
	Join(ctx context.Context, caller string, id entity.SessionID) (entity.Session, error)
	OpenAndJoin(ctx context.Context, caller string, stake uint64) (entity.Session, error)
	Start(ctx context.Context, caller string) (entity.Session, error)
	Play(ctx context.Context, caller string, x, y int) (entity.MoveResult, error)

	Session(id entity.SessionID) (entity.SessionView, error)
	OpenSessions() []entity.SessionView
	StartedSessions() []entity.SessionView
	GameState(id entity.SessionID) (entity.GameState, error)
	EndedGame(ctx context.Context, id entity.SessionID) (entity.EndedGame, error)
	EndedGames(ctx context.Context) []entity.EndedGame
}

type stakeRequest struct {
	Stake *uint64 `json:"stake" binding:"required"`
}

type playRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

type Handlers struct {
	logger *slog.Logger

	game     gameManager
	accounts accountLedger

	initialBalance uint64
}

func NewHandlers(logger *slog.Logger, game gameManager, accounts accountLedger, initialBalance uint64) *Handlers {
	return &Handlers{
		logger:         logger,
		game:           game,
		accounts:       accounts,
		initialBalance: initialBalance,
	}
}

func (that *Handlers) Open(ctx *gin.Context) {
	var req stakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := that.game.Open(ctx.Request.Context(), callerOf(ctx), *req.Stake)
	if err != nil {
		that.respondError(ctx, "Open", err)
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

func (that *Handlers) OpenAndJoin(ctx *gin.Context) {
	var req stakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := that.game.OpenAndJoin(ctx.Request.Context(), callerOf(ctx), *req.Stake)
	if err != nil {
		that.respondError(ctx, "OpenAndJoin", err)
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

func (that *Handlers) Join(ctx *gin.Context) {
	id, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	session, err := that.game.Join(ctx.Request.Context(), callerOf(ctx), id)
	if err != nil {
		that.respondError(ctx, "Join", err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

func (that *Handlers) Start(ctx *gin.Context) {
	session, err := that.game.Start(ctx.Request.Context(), callerOf(ctx))
	if err != nil {
		that.respondError(ctx, "Start", err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// Play - a win whose payout or archiving failed is still a win: it answers 200
// with the failure attached as a warning.
func (that *Handlers) Play(ctx *gin.Context) {
	var req playRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := that.game.Play(ctx.Request.Context(), callerOf(ctx), *req.X, *req.Y)

	var settlement *apperror.SettlementError
	if errors.As(err, &settlement) {
		that.logger.Warn("settlement incomplete", "method", "Play", "error", err)
		ctx.JSON(http.StatusOK, gin.H{"result": result, "warning": err.Error()})

		return
	}

	if err != nil {
		that.respondError(ctx, "Play", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}

func (that *Handlers) OpenSessions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, that.game.OpenSessions())
}

func (that *Handlers) StartedSessions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, that.game.StartedSessions())
}

func (that *Handlers) Session(ctx *gin.Context) {
	id, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	view, err := that.game.Session(id)
	if err != nil {
		that.respondError(ctx, "Session", err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (that *Handlers) Board(ctx *gin.Context) {
	id, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	game, err := that.game.GameState(id)
	if err != nil {
		that.respondError(ctx, "Board", err)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

func (that *Handlers) EndedGames(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, that.game.EndedGames(ctx.Request.Context()))
}

func (that *Handlers) EndedGame(ctx *gin.Context) {
	id, ok := sessionIDParam(ctx)
	if !ok {
		return
	}

	game, err := that.game.EndedGame(ctx.Request.Context(), id)
	if err != nil {
		that.respondError(ctx, "EndedGame", err)
		return
	}

	ctx.JSON(http.StatusOK, game)
}

func sessionIDParam(ctx *gin.Context) (entity.SessionID, bool) {
	id, err := entity.ParseSessionID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return entity.SessionID{}, false
	}

	return id, true
}
