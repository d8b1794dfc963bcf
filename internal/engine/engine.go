package engine

import (
	"math/big"
	"sync"
)

// Engine 融资与治理结算引擎（进程内账本模式）
//
// 状态变更入口由单一互斥锁串行化，等价于链上账本对
// 状态变更调用的全序。所有前置条件在任何变更之前同步
// 检查，失败时不产生部分状态变化。
type Engine struct {
	mu     sync.Mutex
	store  Store
	tokens *TokenBook
	clock  Clock
	sink   EventSink
}

// AdminCap 管理能力凭证
//
// 仅 New 返回的凭证对该引擎有效，特权操作以持有凭证为授权依据，
// 状态机本身不做角色判断。
type AdminCap struct {
	engine *Engine
}

// New 创建结算引擎，返回引擎和对应的管理能力凭证
func New(store Store, tokens *TokenBook, clock Clock, sink EventSink) (*Engine, AdminCap) {
	if clock == nil {
		clock = SystemClock()
	}
	if sink == nil {
		sink = NopSink()
	}
	e := &Engine{
		store:  store,
		tokens: tokens,
		clock:  clock,
		sink:   sink,
	}
	return e, AdminCap{engine: e}
}

// authorize 校验管理凭证
func (e *Engine) authorize(cap AdminCap) error {
	if cap.engine != e {
		return ErrNotAuthorized
	}
	return nil
}

// Mint 向账户增发代币（管理操作）
func (e *Engine) Mint(cap AdminCap, addr string, amount *big.Int) error {
	if err := e.authorize(cap); err != nil {
		return err
	}
	if IsZeroAddress(addr) {
		return ErrInvalidOwner
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tokens.mint(addr, amount)
	return nil
}

// BalanceOf 查询账户余额
func (e *Engine) BalanceOf(addr string) *big.Int {
	return e.tokens.BalanceOf(addr)
}

// GetProject 读取项目状态（返回副本）
func (e *Engine) GetProject(id int64) (*Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.store.GetProject(id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return copyProject(p), nil
}

// GetSession 读取投票会话状态（返回副本）
func (e *Engine) GetSession(id int64) (*VotingSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.store.GetSession(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(s), nil
}

// copyProject 深拷贝项目，读取方不得触及内部状态
func copyProject(p *Project) *Project {
	return &Project{
		ID:             p.ID,
		Owner:          p.Owner,
		FundingGoal:    new(big.Int).Set(p.FundingGoal),
		CurrentFunding: new(big.Int).Set(p.CurrentFunding),
		Deadline:       p.Deadline,
		Funded:         p.Funded,
		FundsReleased:  p.FundsReleased,
		CreatedAt:      p.CreatedAt,
	}
}

// copySession 深拷贝投票会话
func copySession(s *VotingSession) *VotingSession {
	voted := make(map[string]bool, len(s.HasVoted))
	for k, v := range s.HasVoted {
		voted[k] = v
	}
	return &VotingSession{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		YesVotes:  new(big.Int).Set(s.YesVotes),
		NoVotes:   new(big.Int).Set(s.NoVotes),
		Finalized: s.Finalized,
		HasVoted:  voted,
	}
}
