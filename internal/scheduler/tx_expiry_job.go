package scheduler

import (
	"time"

	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// TxExpiryJob 超时交易清理任务
//
// 超过宽限期仍未确认的交易标记为 expired，避免镜像里永久挂起的行。
// 标记后若交易最终上链，事件监听仍会刷新业务镜像。
type TxExpiryJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewTxExpiryJob 创建超时交易清理任务
func NewTxExpiryJob(db *gorm.DB, cfg *config.Config) *TxExpiryJob {
	return &TxExpiryJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *TxExpiryJob) GetName() string {
	return "tx_expiry_sweeper"
}

// GetSchedule 获取调度配置
func (j *TxExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *TxExpiryJob) Execute() {
	grace := time.Duration(j.config.Scheduler.GracePeriod) * time.Second
	cutoff := time.Now().UTC().Add(-grace)

	result := j.db.Model(&model.TransactionModel{}).
		Where("status = ? AND submitted_at < ?", model.TxStatusPending, cutoff).
		Update("status", model.TxStatusExpired)
	if result.Error != nil {
		logger.Error("Failed to expire stale transactions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		logger.Warn("Expired %d transactions pending longer than %s", result.RowsAffected, grace)
	}
}
