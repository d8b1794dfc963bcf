package handler

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// 状态变更请求统一携带 key：local模式下为调用方地址，
// chain模式下为十六进制私钥，服务不保存。

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Key          string `json:"key" binding:"required"`
	ProjectId    int64  `json:"projectId" binding:"required"`
	Owner        string `json:"owner" binding:"required"`
	FundingGoal  string `json:"fundingGoal" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required,min=1"`
}

// FundProjectRequest 出资请求
type FundProjectRequest struct {
	Key    string `json:"key" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// CreateSessionRequest 创建投票会话请求
type CreateSessionRequest struct {
	Key          string `json:"key" binding:"required"`
	SessionId    int64  `json:"sessionId" binding:"required"`
	ProjectId    int64  `json:"projectId" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required,min=1"`
}

// VoteRequest 投票请求
type VoteRequest struct {
	Key     string `json:"key" binding:"required"`
	InFavor *bool  `json:"inFavor" binding:"required"`
}

// FinalizeRequest 终局请求
type FinalizeRequest struct {
	Key string `json:"key" binding:"required"`
}

// ReleaseFundsRequest 释放资金请求
type ReleaseFundsRequest struct {
	Key       string `json:"key" binding:"required"`
	SessionId int64  `json:"sessionId" binding:"required"`
}

// MintRequest 铸币请求（仅local模式）
type MintRequest struct {
	Key     string `json:"key" binding:"required"`
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// TxResponse 状态变更响应
type TxResponse struct {
	TxHash string `json:"txHash"`
}
