package engine

import (
	"math/big"
	"time"
)

// Event 结算事件
type Event interface {
	EventName() string
}

// EventSink 事件接收器，通知等下游订阅方实现此接口
type EventSink interface {
	Publish(event Event)
}

// SinkFunc 函数式事件接收器
type SinkFunc func(event Event)

func (f SinkFunc) Publish(event Event) { f(event) }

// NopSink 丢弃所有事件的接收器
func NopSink() EventSink {
	return SinkFunc(func(Event) {})
}

// ProjectCreatedEvent 项目创建事件
type ProjectCreatedEvent struct {
	ProjectID   int64
	Owner       string
	FundingGoal *big.Int
	Deadline    time.Time
}

func (ProjectCreatedEvent) EventName() string { return "ProjectCreated" }

// ProjectFundedEvent 项目出资事件
type ProjectFundedEvent struct {
	ProjectID   int64
	Contributor string
	Amount      *big.Int
}

func (ProjectFundedEvent) EventName() string { return "ProjectFunded" }

// VotingSessionCreatedEvent 投票会话创建事件
type VotingSessionCreatedEvent struct {
	SessionID int64
	ProjectID int64
	StartTime time.Time
	EndTime   time.Time
}

func (VotingSessionCreatedEvent) EventName() string { return "VotingSessionCreated" }

// VoteCastEvent 投票事件
type VoteCastEvent struct {
	SessionID int64
	Voter     string
	InFavor   bool
	Weight    *big.Int
}

func (VoteCastEvent) EventName() string { return "VoteCast" }

// VotingSessionFinalizedEvent 投票会话终局事件
type VotingSessionFinalizedEvent struct {
	SessionID int64
	Passed    bool
}

func (VotingSessionFinalizedEvent) EventName() string { return "VotingSessionFinalized" }

// FundsReleasedEvent 资金释放事件
type FundsReleasedEvent struct {
	ProjectID int64
	Owner     string
	Amount    *big.Int
}

func (FundsReleasedEvent) EventName() string { return "FundsReleased" }
