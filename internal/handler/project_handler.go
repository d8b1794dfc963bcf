package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	settlement service.Settlement
	records    *service.RecordLogic
}

func NewProjectHandler(svc service.Settlement, db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		settlement: svc,
		records:    service.NewRecordLogic(db),
	}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.CreateProject(c.Request.Context(),
		req.Key, req.ProjectId, req.Owner, req.FundingGoal, req.DurationDays)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", TxResponse{TxHash: txHash})
}

// FundProject 项目出资
func (h *ProjectHandler) FundProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req FundProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.FundProject(c.Request.Context(), req.Key, id, req.Amount)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "出资已提交", TxResponse{TxHash: txHash})
}

// ReleaseFunds 释放项目资金
func (h *ProjectHandler) ReleaseFunds(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req ReleaseFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.settlement.ReleaseFunds(c.Request.Context(), req.Key, id, req.SessionId)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "资金释放已提交", TxResponse{TxHash: txHash})
}

// GetProject 获取项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	details, err := h.settlement.GetProjectDetails(c.Request.Context(), id)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", details)
}

// GetProjectContributions 获取项目出资记录
func (h *ProjectHandler) GetProjectContributions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	contributions, total, err := h.records.ListContributions(id, page, pageSize)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", gin.H{
		"contributions": contributions,
		"pagination": Pagination{
			Page:      page,
			PageSize:  pageSize,
			Total:     total,
			TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetProjectStats 获取项目出资统计
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	stats, err := h.records.ContributionStats(id)
	if err != nil {
		FailWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", stats)
}
