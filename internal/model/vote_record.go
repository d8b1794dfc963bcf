package model

import (
	"time"
)

// VoteRecordModel 投票记录
//
// 权重在投票时刻捕获（快照），之后不随余额变化。
// (session, voter) 唯一索引对应"每个账户每个会话最多投一次"。
type VoteRecordModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionId int64  `json:"session_id" gorm:"not null;uniqueIndex:idx_vote_session_voter"`
	Voter     string `json:"voter" gorm:"not null;uniqueIndex:idx_vote_session_voter"`
	InFavor   bool   `json:"in_favor"`
	Weight    string `json:"weight" gorm:"type:numeric(78,0);not null"`

	TxHash   string `json:"tx_hash"`
	BlockNum uint64 `json:"block_num"`
}

// TableName 自定义表名
func (VoteRecordModel) TableName() string {
	return "vote_record"
}
