package service

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/blues/fgs/internal/ledger"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// ContractInvoker 合约调用接口，测试时注入假实现
type ContractInvoker interface {
	Call(ctx context.Context, results *[]interface{}, fn string, args ...interface{}) error
	Invoke(ctx context.Context, key *ecdsa.PrivateKey, fn string, args ...interface{}) (common.Hash, error)
}

// ChainSettlement 链上合约模式的结算服务
//
// 状态变更提交为合约交易后立即返回，确认由调度任务轮询；
// 镜像表在确认前可能与账本短暂不一致，账本为唯一事实来源。
type ChainSettlement struct {
	contract ContractInvoker
	db       *gorm.DB
}

// NewChainSettlement 创建链上结算服务
func NewChainSettlement(contract ContractInvoker, db *gorm.DB) *ChainSettlement {
	return &ChainSettlement{
		contract: contract,
		db:       db,
	}
}

// CreateProject 创建项目
func (c *ChainSettlement) CreateProject(ctx context.Context, adminKey string, id int64, owner string, fundingGoal string, durationDays int) (string, error) {
	key, err := ledger.ParseKey(adminKey)
	if err != nil {
		return "", fmt.Errorf("无法解析签名私钥: %w", err)
	}
	goal, err := ToUnits(fundingGoal)
	if err != nil {
		return "", err
	}

	hash, err := c.contract.Invoke(ctx, key, "createProject",
		big.NewInt(id), common.HexToAddress(owner), goal, big.NewInt(int64(durationDays)))
	if err != nil {
		return "", err
	}

	c.trackTx(hash, model.TxKindCreateProject, id)
	c.mirror(&model.ProjectModel{
		Id:             id,
		Owner:          owner,
		FundingGoal:    goal.String(),
		CurrentFunding: "0",
		Deadline:       time.Now().Add(time.Duration(durationDays) * 24 * time.Hour),
		TxHash:         hash.Hex(),
		Status:         model.TxStatusPending,
	})
	return hash.Hex(), nil
}

// FundProject 出资
func (c *ChainSettlement) FundProject(ctx context.Context, contributorKey string, id int64, amount string) (string, error) {
	key, err := ledger.ParseKey(contributorKey)
	if err != nil {
		return "", fmt.Errorf("无法解析签名私钥: %w", err)
	}
	units, err := ToUnits(amount)
	if err != nil {
		return "", err
	}

	hash, err := c.contract.Invoke(ctx, key, "fundProject", big.NewInt(id), units)
	if err != nil {
		return "", err
	}

	c.trackTx(hash, model.TxKindFundProject, id)
	return hash.Hex(), nil
}

// CreateVotingSession 创建投票会话
func (c *ChainSettlement) CreateVotingSession(ctx context.Context, adminKey string, sessionID, projectID int64, durationDays int) (string, error) {
	key, err := ledger.ParseKey(adminKey)
	if err != nil {
		return "", fmt.Errorf("无法解析签名私钥: %w", err)
	}

	hash, err := c.contract.Invoke(ctx, key, "createVotingSession",
		big.NewInt(sessionID), big.NewInt(projectID), big.NewInt(int64(durationDays)))
	if err != nil {
		return "", err
	}

	c.trackTx(hash, model.TxKindCreateSession, sessionID)
	now := time.Now()
	c.mirror(&model.VotingSessionModel{
		Id:        sessionID,
		ProjectId: projectID,
		StartTime: now,
		EndTime:   now.Add(time.Duration(durationDays) * 24 * time.Hour),
		YesVotes:  "0",
		NoVotes:   "0",
		TxHash:    hash.Hex(),
		Status:    model.TxStatusPending,
	})
	return hash.Hex(), nil
}

// Vote 投票
func (c *ChainSettlement) Vote(ctx context.Context, voterKey string, sessionID int64, inFavor bool) (string, error) {
	key, err := ledger.ParseKey(voterKey)
	if err != nil {
		return "", fmt.Errorf("无法解析签名私钥: %w", err)
	}

	hash, err := c.contract.Invoke(ctx, key, "vote", big.NewInt(sessionID), inFavor)
	if err != nil {
		return "", err
	}

	c.trackTx(hash, model.TxKindVote, sessionID)
	return hash.Hex(), nil
}

// FinalizeVotingSession 终局投票会话
func (c *ChainSettlement) FinalizeVotingSession(ctx context.Context, callerKey string, sessionID int64) (string, error) {
	key, err := ledger.ParseKey(callerKey)
	if err != nil {
		return "", fmt.Errorf("无法解析签名私钥: %w", err)
	}

	hash, err := c.contract.Invoke(ctx, key, "finalizeVotingSession", big.NewInt(sessionID))
	if err != nil {
		return "", err
	}

	c.trackTx(hash, model.TxKindFinalizeSession, sessionID)
	return hash.Hex(), nil
}

// ReleaseFunds 释放资金
func (c *ChainSettlement) ReleaseFunds(ctx context.Context, adminKey string, projectID, sessionID int64) (string, error) {
	key, err := ledger.ParseKey(adminKey)
	if err != nil {
		return "", fmt.Errorf("无法解析签名私钥: %w", err)
	}

	hash, err := c.contract.Invoke(ctx, key, "releaseFunds", big.NewInt(projectID), big.NewInt(sessionID))
	if err != nil {
		return "", err
	}

	c.trackTx(hash, model.TxKindReleaseFunds, projectID)
	return hash.Hex(), nil
}

// GetProjectDetails 读取链上项目状态
func (c *ChainSettlement) GetProjectDetails(ctx context.Context, projectID int64) (*ProjectDetails, error) {
	var out []interface{}
	if err := c.contract.Call(ctx, &out, "getProjectDetails", big.NewInt(projectID)); err != nil {
		return nil, err
	}
	if len(out) != 6 {
		return nil, fmt.Errorf("getProjectDetails 返回值数量异常: %d", len(out))
	}

	owner, _ := out[0].(common.Address)
	goal, _ := out[1].(*big.Int)
	current, _ := out[2].(*big.Int)
	deadline, _ := out[3].(*big.Int)
	funded, _ := out[4].(bool)
	released, _ := out[5].(bool)

	return &ProjectDetails{
		ID:             projectID,
		Owner:          owner.Hex(),
		FundingGoal:    FromUnits(goal),
		CurrentFunding: FromUnits(current),
		Deadline:       time.Unix(deadline.Int64(), 0).UTC(),
		Funded:         funded,
		FundsReleased:  released,
	}, nil
}

// GetVotingSessionDetails 读取链上投票会话状态
func (c *ChainSettlement) GetVotingSessionDetails(ctx context.Context, sessionID int64) (*SessionDetails, error) {
	var out []interface{}
	if err := c.contract.Call(ctx, &out, "getVotingSessionDetails", big.NewInt(sessionID)); err != nil {
		return nil, err
	}
	if len(out) != 6 {
		return nil, fmt.Errorf("getVotingSessionDetails 返回值数量异常: %d", len(out))
	}

	projectID, _ := out[0].(*big.Int)
	startTime, _ := out[1].(*big.Int)
	endTime, _ := out[2].(*big.Int)
	yes, _ := out[3].(*big.Int)
	no, _ := out[4].(*big.Int)
	finalized, _ := out[5].(bool)

	return &SessionDetails{
		ID:        sessionID,
		ProjectID: projectID.Int64(),
		StartTime: time.Unix(startTime.Int64(), 0).UTC(),
		EndTime:   time.Unix(endTime.Int64(), 0).UTC(),
		YesVotes:  FromUnits(yes),
		NoVotes:   FromUnits(no),
		Finalized: finalized,
		Passed:    finalized && yes.Cmp(no) > 0,
	}, nil
}

// trackTx 记录待确认交易
func (c *ChainSettlement) trackTx(hash common.Hash, kind model.TxKind, refID int64) {
	if c.db == nil {
		return
	}
	record := &model.TransactionModel{
		TxHash:      hash.Hex(),
		Kind:        kind,
		RefId:       refID,
		Status:      model.TxStatusPending,
		SubmittedAt: time.Now(),
	}
	if err := c.db.Create(record).Error; err != nil {
		logger.Error("Failed to track transaction %s: %v", hash.Hex(), err)
	}
}

// mirror 写入乐观镜像记录（确认前可能与账本不一致）
func (c *ChainSettlement) mirror(record interface{}) {
	if c.db == nil {
		return
	}
	if err := c.db.Create(record).Error; err != nil {
		logger.Error("Failed to write mirror record: %v", err)
	}
}

var _ Settlement = (*ChainSettlement)(nil)
