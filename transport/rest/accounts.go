package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type accountLedger interface {
	CreateAccount(ctx context.Context, identity string, balance uint64) error
	Balance(ctx context.Context, identity string) (uint64, error)
}

// CreateAccount - opens the caller's ledger account. An existing account keeps its balance.
func (that *Handlers) CreateAccount(ctx *gin.Context) {
	if err := that.accounts.CreateAccount(ctx.Request.Context(), callerOf(ctx), that.initialBalance); err != nil {
		that.respondError(ctx, "CreateAccount", err)
		return
	}

	that.Balance(ctx)
}

func (that *Handlers) Balance(ctx *gin.Context) {
	caller := callerOf(ctx)

	balance, err := that.accounts.Balance(ctx.Request.Context(), caller)
	if err != nil {
		that.respondError(ctx, "Balance", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"identity": caller, "balance": balance})
}
