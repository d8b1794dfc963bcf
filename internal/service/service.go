package service

import (
	"context"
	"time"
)

// ProjectDetails 项目当前状态（金额为展示用十进制字符串）
type ProjectDetails struct {
	ID             int64     `json:"id"`
	Owner          string    `json:"owner"`
	FundingGoal    string    `json:"funding_goal"`
	CurrentFunding string    `json:"current_funding"`
	Deadline       time.Time `json:"deadline"`
	Funded         bool      `json:"funded"`
	FundsReleased  bool      `json:"funds_released"`
}

// SessionDetails 投票会话当前状态
type SessionDetails struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	YesVotes  string    `json:"yes_votes"`
	NoVotes   string    `json:"no_votes"`
	Finalized bool      `json:"finalized"`
	Passed    bool      `json:"passed"`
}

// Settlement 结算服务边界
//
// 状态变更操作接收签名密钥材料和十进制金额，金额在此边界
// 换算为最小代币单位；返回交易标识。链上模式下交易异步确认，
// 进程内模式下同步生效并返回合成标识。
//
// 服务从不生成或保存私钥，密钥只在单次调用中透传给适配器。
type Settlement interface {
	CreateProject(ctx context.Context, adminKey string, id int64, owner string, fundingGoal string, durationDays int) (string, error)
	FundProject(ctx context.Context, contributorKey string, id int64, amount string) (string, error)
	CreateVotingSession(ctx context.Context, adminKey string, sessionID, projectID int64, durationDays int) (string, error)
	Vote(ctx context.Context, voterKey string, sessionID int64, inFavor bool) (string, error)
	FinalizeVotingSession(ctx context.Context, callerKey string, sessionID int64) (string, error)
	ReleaseFunds(ctx context.Context, adminKey string, projectID, sessionID int64) (string, error)
	GetProjectDetails(ctx context.Context, projectID int64) (*ProjectDetails, error)
	GetVotingSessionDetails(ctx context.Context, sessionID int64) (*SessionDetails, error)
}
