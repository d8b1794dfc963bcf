package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VotingHandler struct {
	settlement service.Settlement
	records    *service.RecordLogic
}

func NewVotingHandler(svc service.Settlement, db *gorm.DB) *VotingHandler {
	return &VotingHandler{
		settlement: svc,
		records:    service.NewRecordLogic(db),
	}
}

// CreateSession 创建投票会话
func (h *VotingHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.CreateVotingSession(c.Request.Context(),
		req.Key, req.SessionId, req.ProjectId, req.DurationDays)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "投票会话创建成功", TxResponse{TxHash: txHash})
}

// Vote 投票
func (h *VotingHandler) Vote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.Vote(c.Request.Context(), req.Key, id, *req.InFavor)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投票已提交", TxResponse{TxHash: txHash})
}

// FinalizeSession 终局投票会话
func (h *VotingHandler) FinalizeSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.FinalizeVotingSession(c.Request.Context(), req.Key, id)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "会话已终局", TxResponse{TxHash: txHash})
}

// GetSession 获取投票会话详情
func (h *VotingHandler) GetSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	details, err := h.settlement.GetVotingSessionDetails(c.Request.Context(), id)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", details)
}

// GetSessionVotes 获取会话投票记录
func (h *VotingHandler) GetSessionVotes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	votes, total, err := h.records.ListVotes(id, page, pageSize)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", gin.H{
		"votes": votes,
		"pagination": Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}
