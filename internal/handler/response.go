package handler

import (
	"errors"
	"net/http"

	"github.com/blues/fgs/internal/engine"
	"github.com/blues/fgs/internal/ledger"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailWithError 按错误语义映射HTTP状态码
func FailWithError(c *gin.Context, err error) {
	ErrorResponse(c, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrProjectNotFound),
		errors.Is(err, engine.ErrSessionNotFound),
		errors.Is(err, ledger.ErrTxNotFound):
		return http.StatusNotFound

	case errors.Is(err, engine.ErrDuplicateProjectID),
		errors.Is(err, engine.ErrDuplicateSessionID),
		errors.Is(err, engine.ErrAlreadyFunded),
		errors.Is(err, engine.ErrAlreadyReleased),
		errors.Is(err, engine.ErrAlreadyVoted),
		errors.Is(err, engine.ErrAlreadyFinalized):
		return http.StatusConflict

	case errors.Is(err, engine.ErrNotAuthorized):
		return http.StatusForbidden

	case errors.Is(err, engine.ErrInvalidOwner),
		errors.Is(err, engine.ErrInvalidGoal),
		errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrSessionMismatch),
		errors.Is(err, engine.ErrDeadlinePassed),
		errors.Is(err, engine.ErrVotingNotOpen),
		errors.Is(err, engine.ErrVotingStillOpen),
		errors.Is(err, engine.ErrVotingNotFinalized),
		errors.Is(err, engine.ErrVoteNotPassed),
		errors.Is(err, engine.ErrNotFunded),
		errors.Is(err, engine.ErrInsufficientBalance),
		errors.Is(err, engine.ErrNoVotingPower):
		return http.StatusBadRequest
	}

	var connErr *ledger.ConnectivityError
	if errors.As(err, &connErr) {
		return http.StatusBadGateway
	}
	var fundsErr *ledger.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
