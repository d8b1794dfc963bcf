package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/ledger"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// TxConfirmationJob 待确认交易轮询任务
//
// 镜像里的 pending 交易逐笔核对链上状态，达到确认数后标记 confirmed，
// 回执失败则标记 failed。链路抖动只记日志，留给下一轮。
type TxConfirmationJob struct {
	db     *gorm.DB
	client *ledger.Client
	config *config.Config
}

// NewTxConfirmationJob 创建交易确认任务
func NewTxConfirmationJob(db *gorm.DB, client *ledger.Client, cfg *config.Config) *TxConfirmationJob {
	return &TxConfirmationJob{
		db:     db,
		client: client,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *TxConfirmationJob) GetName() string {
	return "tx_confirmation_poller"
}

// GetSchedule 获取调度配置
func (j *TxConfirmationJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *TxConfirmationJob) Execute() {
	ctx := context.Background()

	var pending []model.TransactionModel
	if err := j.db.Where("status = ?", model.TxStatusPending).
		Order("submitted_at ASC").Limit(100).Find(&pending).Error; err != nil {
		logger.Error("Failed to fetch pending transactions: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	confirmed := 0
	for _, tx := range pending {
		hash := common.HexToHash(tx.TxHash)

		ok, err := j.client.VerifyTransaction(ctx, hash)
		if err != nil {
			if errors.Is(err, ledger.ErrTxNotFound) {
				// 尚未被任何节点看到，交给宽限期任务
				continue
			}
			if ledger.IsRetryable(err) {
				logger.Warn("Connectivity error verifying tx %s: %v", tx.TxHash, err)
				continue
			}
			logger.Error("Failed to verify tx %s: %v", tx.TxHash, err)
			continue
		}
		if !ok {
			continue
		}

		details, err := j.client.TransactionDetails(ctx, hash)
		if err != nil {
			logger.Warn("Failed to fetch details for tx %s: %v", tx.TxHash, err)
			continue
		}

		status := model.TxStatusConfirmed
		if !details.Succeeded {
			status = model.TxStatusFailed
		}

		now := time.Now().UTC()
		err = j.db.Model(&model.TransactionModel{}).Where("id = ?", tx.ID).
			Updates(map[string]interface{}{
				"status":       status,
				"confirmed_at": &now,
			}).Error
		if err != nil {
			logger.Error("Failed to update tx %s: %v", tx.TxHash, err)
			continue
		}

		logger.Info("Transaction %s (%s) marked %s at block %d",
			tx.TxHash, tx.Kind, status, details.BlockNum)
		confirmed++
	}

	if confirmed > 0 {
		logger.Info("Transaction confirmation completed, %d of %d resolved", confirmed, len(pending))
	}
}
