package engine

import (
	"math/big"
	"strings"
	"time"
)

// ZeroAddress 零地址
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// IsZeroAddress 判断是否为零/空地址
func IsZeroAddress(addr string) bool {
	return addr == "" || strings.EqualFold(addr, ZeroAddress)
}

// Project 融资项目
//
// CurrentFunding 单调不减；Funded 与 FundsReleased 只允许 false→true 的单向转移。
type Project struct {
	ID             int64
	Owner          string
	FundingGoal    *big.Int
	CurrentFunding *big.Int
	Deadline       time.Time
	Funded         bool
	FundsReleased  bool
	CreatedAt      time.Time
}

// VotingSession 投票会话
type VotingSession struct {
	ID        int64
	ProjectID int64
	StartTime time.Time
	EndTime   time.Time
	YesVotes  *big.Int
	NoVotes   *big.Int
	Finalized bool
	HasVoted  map[string]bool
}

// Passed 通过需要严格多数，平票视为未通过
func (s *VotingSession) Passed() bool {
	return s.YesVotes.Cmp(s.NoVotes) > 0
}

// Open 投票窗口是否开放（两端闭区间）
func (s *VotingSession) Open(now time.Time) bool {
	return !now.Before(s.StartTime) && !now.After(s.EndTime)
}

// Clock 时钟接口，测试时注入固定时钟
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock 系统时钟
func SystemClock() Clock { return systemClock{} }
