package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TransactionHandler struct {
	records *service.RecordLogic
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{
		records: service.NewRecordLogic(db),
	}
}

// GetPendingTransactions 获取待确认交易
func (h *TransactionHandler) GetPendingTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	txs, err := h.records.ListPendingTransactions(limit)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", gin.H{"transactions": txs})
}
