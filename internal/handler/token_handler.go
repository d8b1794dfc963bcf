package handler

import (
	"net/http"

	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
)

// TokenHandler 进程内账本的代币管理接口
//
// chain模式下代币由链上合约管理，本接口不注册。
type TokenHandler struct {
	settlement *service.LocalSettlement
}

func NewTokenHandler(svc *service.LocalSettlement) *TokenHandler {
	return &TokenHandler{settlement: svc}
}

// Mint 管理员铸币
func (h *TokenHandler) Mint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.Mint(c.Request.Context(), req.Key, req.Address, req.Amount)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "铸币成功", TxResponse{TxHash: txHash})
}

// GetBalance 查询账户余额
func (h *TokenHandler) GetBalance(c *gin.Context) {
	addr := c.Param("address")
	balance := h.settlement.Engine().BalanceOf(addr)
	SuccessResponse(c, http.StatusOK, "获取成功", gin.H{
		"address": addr,
		"balance": service.FromUnits(balance),
	})
}
