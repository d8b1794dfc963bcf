package model

import (
	"time"
)

// VotingSessionModel 投票会话链上状态的镜像
type VotingSessionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64 `json:"project_id" gorm:"not null;index"`

	// 投票窗口
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 加权计票（最小代币单位，十进制字符串）
	YesVotes string `json:"yes_votes" gorm:"type:numeric(78,0);default:0"`
	NoVotes  string `json:"no_votes" gorm:"type:numeric(78,0);default:0"`

	// 终局状态
	Finalized bool `json:"finalized" gorm:"default:false"`
	Passed    bool `json:"passed" gorm:"default:false"`

	// 区块链信息
	TxHash string   `json:"tx_hash"`
	Status TxStatus `json:"status" gorm:"default:'pending'"`
}

// TableName 自定义表名
func (VotingSessionModel) TableName() string {
	return "voting_session"
}
