package model

import (
	"time"
)

// TxStatus 交易镜像状态
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"   // 已提交，等待确认
	TxStatusConfirmed TxStatus = "confirmed" // 已达到确认数
	TxStatusFailed    TxStatus = "failed"    // 已上链但执行回滚
	TxStatusExpired   TxStatus = "expired"   // 超过宽限期仍未上链
)

// TxKind 交易类型
type TxKind string

const (
	TxKindCreateProject   TxKind = "create_project"
	TxKindFundProject     TxKind = "fund_project"
	TxKindCreateSession   TxKind = "create_session"
	TxKindVote            TxKind = "vote"
	TxKindFinalizeSession TxKind = "finalize_session"
	TxKindReleaseFunds    TxKind = "release_funds"
)

// TransactionModel 已提交交易的跟踪记录
//
// 适配器提交交易后立即返回，确认由调度任务轮询完成；
// 本表记录每笔交易从 pending 到终态的流转。
type TransactionModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TxHash string   `json:"tx_hash" gorm:"not null;uniqueIndex"`
	Kind   TxKind   `json:"kind" gorm:"not null"`
	RefId  int64    `json:"ref_id"` // 关联的项目ID或会话ID
	Status TxStatus `json:"status" gorm:"default:'pending';index"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
}

// TableName 自定义表名
func (TransactionModel) TableName() string {
	return "chain_tx"
}
