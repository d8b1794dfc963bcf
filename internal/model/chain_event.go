package model

import (
	"time"
)

// ChainEventModel 链上事件记录
type ChainEventModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventType string `json:"event_type" gorm:"not null;index"`
	TxHash    string `json:"tx_hash" gorm:"not null;uniqueIndex:idx_event_tx_log"`
	LogIndex  uint   `json:"log_index" gorm:"uniqueIndex:idx_event_tx_log"`
	BlockNum  uint64 `json:"block_num" gorm:"not null"`
	Data      string `json:"data" gorm:"type:text"`
	Processed bool   `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (ChainEventModel) TableName() string {
	return "chain_event"
}
