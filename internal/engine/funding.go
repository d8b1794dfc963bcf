package engine

import (
	"math/big"
	"time"
)

// CreateProject 创建融资项目（管理操作）
//
// deadline = now + durationDays，过期后拒绝出资。
func (e *Engine) CreateProject(cap AdminCap, id int64, owner string, fundingGoal *big.Int, durationDays int) error {
	if err := e.authorize(cap); err != nil {
		return err
	}
	if IsZeroAddress(owner) {
		return ErrInvalidOwner
	}
	if fundingGoal == nil || fundingGoal.Sign() <= 0 {
		return ErrInvalidGoal
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.store.GetProject(id); exists {
		return ErrDuplicateProjectID
	}

	now := e.clock.Now()
	p := &Project{
		ID:             id,
		Owner:          owner,
		FundingGoal:    new(big.Int).Set(fundingGoal),
		CurrentFunding: new(big.Int),
		Deadline:       now.Add(time.Duration(durationDays) * 24 * time.Hour),
		Funded:         false,
		FundsReleased:  false,
		CreatedAt:      now,
	}
	e.store.PutProject(p)

	e.sink.Publish(ProjectCreatedEvent{
		ProjectID:   p.ID,
		Owner:       p.Owner,
		FundingGoal: new(big.Int).Set(p.FundingGoal),
		Deadline:    p.Deadline,
	})
	return nil
}

// FundProject 向项目出资
//
// 原子地从出资人扣款转入项目托管，累加 CurrentFunding；
// 达到目标时 Funded 发生单向转移。
func (e *Engine) FundProject(contributor string, id int64, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.store.GetProject(id)
	if !ok {
		return ErrProjectNotFound
	}
	if e.clock.Now().After(p.Deadline) {
		return ErrDeadlinePassed
	}
	if p.Funded {
		return ErrAlreadyFunded
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	if err := e.tokens.debitToEscrow(contributor, id, amount); err != nil {
		return err
	}

	p.CurrentFunding.Add(p.CurrentFunding, amount)
	if p.CurrentFunding.Cmp(p.FundingGoal) >= 0 {
		p.Funded = true
	}
	e.store.PutProject(p)

	e.sink.Publish(ProjectFundedEvent{
		ProjectID:   id,
		Contributor: contributor,
		Amount:      new(big.Int).Set(amount),
	})
	return nil
}

// ReleaseFunds 释放项目资金（管理操作）
//
// 释放以通过的治理投票为门槛：会话必须属于该项目、已终局、
// 且赞成票严格多于反对票。
func (e *Engine) ReleaseFunds(cap AdminCap, projectID, sessionID int64) error {
	if err := e.authorize(cap); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.store.GetProject(projectID)
	if !ok {
		return ErrProjectNotFound
	}
	if !p.Funded {
		return ErrNotFunded
	}
	if p.FundsReleased {
		return ErrAlreadyReleased
	}

	s, ok := e.store.GetSession(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if s.ProjectID != projectID {
		return ErrSessionMismatch
	}
	if !s.Finalized {
		return ErrVotingNotFinalized
	}
	if !s.Passed() {
		return ErrVoteNotPassed
	}

	amount := e.tokens.releaseEscrow(projectID, p.Owner)
	p.FundsReleased = true
	e.store.PutProject(p)

	e.sink.Publish(FundsReleasedEvent{
		ProjectID: projectID,
		Owner:     p.Owner,
		Amount:    amount,
	})
	return nil
}
