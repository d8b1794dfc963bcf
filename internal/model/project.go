package model

import (
	"time"
)

// ProjectModel 融资项目链上状态的镜像
//
// 账本是唯一事实来源，本表是最终一致的缓存，
// 由交易确认轮询和事件监控刷新。
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 融资信息（金额为最小代币单位，十进制字符串）
	Owner          string `json:"owner" gorm:"not null"`
	FundingGoal    string `json:"funding_goal" gorm:"type:numeric(78,0);not null"`
	CurrentFunding string `json:"current_funding" gorm:"type:numeric(78,0);default:0"`

	// 时间信息
	Deadline time.Time `json:"deadline" gorm:"not null"`

	// 状态（单向转移，不会回退）
	Funded        bool `json:"funded" gorm:"default:false"`
	FundsReleased bool `json:"funds_released" gorm:"default:false"`

	// 区块链信息
	TxHash string `json:"tx_hash"`
	Status TxStatus `json:"status" gorm:"default:'pending'"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}
