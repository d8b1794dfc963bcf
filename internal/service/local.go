package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/blues/fgs/internal/engine"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"gorm.io/gorm"
)

// LocalSettlement 进程内账本模式的结算服务
//
// 操作同步生效，"签名密钥"即账户地址；镜像表在操作成功后
// 立即写入（无确认延迟）。用于本地开发和测试环境。
type LocalSettlement struct {
	engine *engine.Engine
	cap    engine.AdminCap
	admin  string
	db     *gorm.DB
	seq    atomic.Int64
}

// NewLocalSettlement 创建进程内结算服务
func NewLocalSettlement(eng *engine.Engine, cap engine.AdminCap, admin string, db *gorm.DB) *LocalSettlement {
	return &LocalSettlement{
		engine: eng,
		cap:    cap,
		admin:  admin,
		db:     db,
	}
}

// Engine 底层引擎（测试和管理工具使用）
func (l *LocalSettlement) Engine() *engine.Engine {
	return l.engine
}

// nextTxID 生成本地交易标识
func (l *LocalSettlement) nextTxID() string {
	return fmt.Sprintf("local-%d", l.seq.Add(1))
}

// checkAdmin 校验管理员身份（local模式以配置地址为特权身份）
func (l *LocalSettlement) checkAdmin(key string) error {
	if !strings.EqualFold(key, l.admin) {
		return engine.ErrNotAuthorized
	}
	return nil
}

// Mint 管理员增发代币
//
// local模式下账本从零开始，余额只能由这里进入；
// chain模式下代币由链上合约管理，没有对应操作。
func (l *LocalSettlement) Mint(ctx context.Context, adminKey string, addr string, amount string) (string, error) {
	if err := l.checkAdmin(adminKey); err != nil {
		return "", err
	}
	units, err := ToUnits(amount)
	if err != nil {
		return "", err
	}
	if err := l.engine.Mint(l.cap, addr, units); err != nil {
		return "", err
	}
	return l.nextTxID(), nil
}

// ApplyGenesis 启动时按配置铸入初始余额
func ApplyGenesis(eng *engine.Engine, cap engine.AdminCap, allocations map[string]string) error {
	for addr, amount := range allocations {
		units, err := ToUnits(amount)
		if err != nil {
			return fmt.Errorf("创世余额 %s 无效: %w", addr, err)
		}
		if err := eng.Mint(cap, addr, units); err != nil {
			return fmt.Errorf("创世余额 %s 铸入失败: %w", addr, err)
		}
	}
	return nil
}

// CreateProject 创建项目
func (l *LocalSettlement) CreateProject(ctx context.Context, adminKey string, id int64, owner string, fundingGoal string, durationDays int) (string, error) {
	if err := l.checkAdmin(adminKey); err != nil {
		return "", err
	}
	goal, err := ToUnits(fundingGoal)
	if err != nil {
		return "", err
	}

	if err := l.engine.CreateProject(l.cap, id, owner, goal, durationDays); err != nil {
		return "", err
	}

	txID := l.nextTxID()
	p, _ := l.engine.GetProject(id)
	l.mirror(&model.ProjectModel{
		Id:             id,
		Owner:          owner,
		FundingGoal:    goal.String(),
		CurrentFunding: "0",
		Deadline:       p.Deadline,
		TxHash:         txID,
		Status:         model.TxStatusConfirmed,
	})
	return txID, nil
}

// FundProject 出资
func (l *LocalSettlement) FundProject(ctx context.Context, contributorKey string, id int64, amount string) (string, error) {
	units, err := ToUnits(amount)
	if err != nil {
		return "", err
	}

	if err := l.engine.FundProject(contributorKey, id, units); err != nil {
		return "", err
	}

	txID := l.nextTxID()
	l.mirror(&model.ContributionModel{
		ProjectId: id,
		Address:   contributorKey,
		Amount:    units.String(),
		TxHash:    txID,
	})
	l.refreshProject(id)
	return txID, nil
}

// CreateVotingSession 创建投票会话
func (l *LocalSettlement) CreateVotingSession(ctx context.Context, adminKey string, sessionID, projectID int64, durationDays int) (string, error) {
	if err := l.checkAdmin(adminKey); err != nil {
		return "", err
	}

	if err := l.engine.CreateSession(l.cap, sessionID, projectID, durationDays); err != nil {
		return "", err
	}

	txID := l.nextTxID()
	s, _ := l.engine.GetSession(sessionID)
	l.mirror(&model.VotingSessionModel{
		Id:        sessionID,
		ProjectId: projectID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		YesVotes:  "0",
		NoVotes:   "0",
		TxHash:    txID,
		Status:    model.TxStatusConfirmed,
	})
	return txID, nil
}

// Vote 投票
func (l *LocalSettlement) Vote(ctx context.Context, voterKey string, sessionID int64, inFavor bool) (string, error) {
	weight := l.engine.BalanceOf(voterKey)

	if err := l.engine.CastVote(voterKey, sessionID, inFavor); err != nil {
		return "", err
	}

	txID := l.nextTxID()
	l.mirror(&model.VoteRecordModel{
		SessionId: sessionID,
		Voter:     voterKey,
		InFavor:   inFavor,
		Weight:    weight.String(),
		TxHash:    txID,
	})
	l.refreshSession(sessionID)
	return txID, nil
}

// FinalizeVotingSession 终局投票会话
func (l *LocalSettlement) FinalizeVotingSession(ctx context.Context, callerKey string, sessionID int64) (string, error) {
	if err := l.engine.FinalizeSession(callerKey, sessionID); err != nil {
		return "", err
	}

	txID := l.nextTxID()
	l.refreshSession(sessionID)
	return txID, nil
}

// ReleaseFunds 释放资金
func (l *LocalSettlement) ReleaseFunds(ctx context.Context, adminKey string, projectID, sessionID int64) (string, error) {
	if err := l.checkAdmin(adminKey); err != nil {
		return "", err
	}

	if err := l.engine.ReleaseFunds(l.cap, projectID, sessionID); err != nil {
		return "", err
	}

	txID := l.nextTxID()
	l.refreshProject(projectID)
	return txID, nil
}

// GetProjectDetails 读取项目状态
func (l *LocalSettlement) GetProjectDetails(ctx context.Context, projectID int64) (*ProjectDetails, error) {
	p, err := l.engine.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetails{
		ID:             p.ID,
		Owner:          p.Owner,
		FundingGoal:    FromUnits(p.FundingGoal),
		CurrentFunding: FromUnits(p.CurrentFunding),
		Deadline:       p.Deadline,
		Funded:         p.Funded,
		FundsReleased:  p.FundsReleased,
	}, nil
}

// GetVotingSessionDetails 读取投票会话状态
func (l *LocalSettlement) GetVotingSessionDetails(ctx context.Context, sessionID int64) (*SessionDetails, error) {
	s, err := l.engine.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetails{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		YesVotes:  FromUnits(s.YesVotes),
		NoVotes:   FromUnits(s.NoVotes),
		Finalized: s.Finalized,
		Passed:    s.Finalized && s.Passed(),
	}, nil
}

// mirror 写入镜像记录
func (l *LocalSettlement) mirror(record interface{}) {
	if l.db == nil {
		return
	}
	if err := l.db.Create(record).Error; err != nil {
		logger.Error("Failed to write mirror record: %v", err)
	}
}

// refreshProject 刷新项目镜像
func (l *LocalSettlement) refreshProject(id int64) {
	if l.db == nil {
		return
	}
	p, err := l.engine.GetProject(id)
	if err != nil {
		return
	}
	updates := map[string]interface{}{
		"current_funding": p.CurrentFunding.String(),
		"funded":          p.Funded,
		"funds_released":  p.FundsReleased,
		"updated_at":      time.Now(),
	}
	if err := l.db.Model(&model.ProjectModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.Error("Failed to refresh project mirror %d: %v", id, err)
	}
}

// refreshSession 刷新投票会话镜像
func (l *LocalSettlement) refreshSession(id int64) {
	if l.db == nil {
		return
	}
	s, err := l.engine.GetSession(id)
	if err != nil {
		return
	}
	updates := map[string]interface{}{
		"yes_votes":  s.YesVotes.String(),
		"no_votes":   s.NoVotes.String(),
		"finalized":  s.Finalized,
		"passed":     s.Finalized && s.Passed(),
		"updated_at": time.Now(),
	}
	if err := l.db.Model(&model.VotingSessionModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		logger.Error("Failed to refresh session mirror %d: %v", id, err)
	}
}

var _ Settlement = (*LocalSettlement)(nil)
