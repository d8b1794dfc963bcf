package engine

import (
	"math/big"
	"time"
)

// CreateSession 创建投票会话（管理操作）
//
// startTime = now，endTime = startTime + durationDays。
func (e *Engine) CreateSession(cap AdminCap, sessionID, projectID int64, durationDays int) error {
	if err := e.authorize(cap); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.store.GetProject(projectID); !exists {
		return ErrProjectNotFound
	}
	if _, exists := e.store.GetSession(sessionID); exists {
		return ErrDuplicateSessionID
	}

	now := e.clock.Now()
	s := &VotingSession{
		ID:        sessionID,
		ProjectID: projectID,
		StartTime: now,
		EndTime:   now.Add(time.Duration(durationDays) * 24 * time.Hour),
		YesVotes:  new(big.Int),
		NoVotes:   new(big.Int),
		Finalized: false,
		HasVoted:  make(map[string]bool),
	}
	e.store.PutSession(s)

	e.sink.Publish(VotingSessionCreatedEvent{
		SessionID: s.ID,
		ProjectID: s.ProjectID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	})
	return nil
}

// CastVote 投票
//
// 权重取投票时刻的余额快照，之后不随余额变化。
// 注意：不在会话开始时刻快照，意味着公开账本上存在
// 会话创建后转移余额放大票权的操作空间；这是对原合约
// 语义的保留，观测行为属于兼容面，不在此处修正。
func (e *Engine) CastVote(voter string, sessionID int64, inFavor bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.store.GetSession(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if !s.Open(e.clock.Now()) {
		return ErrVotingNotOpen
	}
	if s.HasVoted[voter] {
		return ErrAlreadyVoted
	}

	weight := e.tokens.BalanceOf(voter)
	if weight.Sign() == 0 {
		return ErrNoVotingPower
	}

	if inFavor {
		s.YesVotes.Add(s.YesVotes, weight)
	} else {
		s.NoVotes.Add(s.NoVotes, weight)
	}
	s.HasVoted[voter] = true
	e.store.PutSession(s)

	e.sink.Publish(VoteCastEvent{
		SessionID: sessionID,
		Voter:     voter,
		InFavor:   inFavor,
		Weight:    weight,
	})
	return nil
}

// FinalizeSession 终局投票会话
//
// 结果完全由时间和累计计票决定，任何人都可以调用。
func (e *Engine) FinalizeSession(caller string, sessionID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.store.GetSession(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if !e.clock.Now().After(s.EndTime) {
		return ErrVotingStillOpen
	}
	if s.Finalized {
		return ErrAlreadyFinalized
	}

	s.Finalized = true
	e.store.PutSession(s)

	e.sink.Publish(VotingSessionFinalizedEvent{
		SessionID: sessionID,
		Passed:    s.Passed(),
	})
	return nil
}
