package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/engine"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"github.com/blues/fgs/internal/service"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// FinalizeSweepJob 投票会话终局扫描任务
//
// 终局不需要特权身份，谁都可以触发；服务自己兜底扫描，
// 免得过了截止时间还没人来敲终局。
type FinalizeSweepJob struct {
	db      *gorm.DB
	service service.Settlement
	config  *config.Config
}

// NewFinalizeSweepJob 创建终局扫描任务
func NewFinalizeSweepJob(db *gorm.DB, svc service.Settlement, cfg *config.Config) *FinalizeSweepJob {
	return &FinalizeSweepJob{
		db:      db,
		service: svc,
		config:  cfg,
	}
}

// GetName 获取任务名称
func (j *FinalizeSweepJob) GetName() string {
	return "voting_finalize_sweeper"
}

// GetSchedule 获取调度配置
func (j *FinalizeSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *FinalizeSweepJob) Execute() {
	ctx := context.Background()
	now := time.Now().UTC()

	var sessions []model.VotingSessionModel
	err := j.db.Where("finalized = ? AND end_time < ?", false, now).
		Limit(50).Find(&sessions).Error
	if err != nil {
		logger.Error("Failed to fetch unfinalized sessions: %v", err)
		return
	}

	for _, session := range sessions {
		_, err := j.service.FinalizeVotingSession(ctx, j.callerKey(), session.Id)
		if err != nil {
			// 别人抢先终局或事件尚未回灌，都属正常
			if errors.Is(err, engine.ErrAlreadyFinalized) || errors.Is(err, engine.ErrVotingStillOpen) {
				continue
			}
			logger.Warn("Failed to finalize session %d: %v", session.Id, err)
			continue
		}
		logger.Info("Finalized voting session %d for project %d", session.Id, session.ProjectId)
	}
}

// callerKey 终局调用使用的身份
func (j *FinalizeSweepJob) callerKey() string {
	if j.config.Engine.Mode == "chain" {
		return j.config.Chain.PrivateKey
	}
	return j.config.Engine.Admin
}
