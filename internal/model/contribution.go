package model

import (
	"time"
)

// ContributionModel 出资记录
type ContributionModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64  `json:"project_id" gorm:"not null;index"`
	Address   string `json:"address" gorm:"not null"`
	Amount    string `json:"amount" gorm:"type:numeric(78,0);not null"`

	TxHash   string `json:"tx_hash" gorm:"uniqueIndex:idx_contribution_tx"`
	LogIndex uint   `json:"log_index" gorm:"uniqueIndex:idx_contribution_tx"`
	BlockNum uint64 `json:"block_num"`
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}
