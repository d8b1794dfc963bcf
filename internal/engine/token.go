package engine

import (
	"math/big"
	"sync"
)

// TokenBook 进程内代币账本
//
// 账户余额加项目托管余额构成进程内账本的全部可变状态。
// 所有金额为最小代币单位，只做整数运算。
type TokenBook struct {
	mu       sync.RWMutex
	balances map[string]*big.Int
	escrow   map[int64]*big.Int // 项目ID -> 托管余额
}

// NewTokenBook 创建代币账本
func NewTokenBook() *TokenBook {
	return &TokenBook{
		balances: make(map[string]*big.Int),
		escrow:   make(map[int64]*big.Int),
	}
}

// BalanceOf 查询账户余额（返回副本）
func (t *TokenBook) BalanceOf(addr string) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// EscrowOf 查询项目托管余额（返回副本）
func (t *TokenBook) EscrowOf(projectID int64) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.escrow[projectID]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// mint 增发代币（仅引擎管理操作可达）
func (t *TokenBook) mint(addr string, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.balances[addr]
	if !ok {
		b = new(big.Int)
		t.balances[addr] = b
	}
	b.Add(b, amount)
}

// debitToEscrow 原子地从账户扣款并转入项目托管
func (t *TokenBook) debitToEscrow(addr string, projectID int64, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.balances[addr]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.Sub(b, amount)

	e, ok := t.escrow[projectID]
	if !ok {
		e = new(big.Int)
		t.escrow[projectID] = e
	}
	e.Add(e, amount)
	return nil
}

// releaseEscrow 将项目托管余额全额转给收款人，返回实际转账金额
func (t *TokenBook) releaseEscrow(projectID int64, to string) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.escrow[projectID]
	if !ok || e.Sign() == 0 {
		return new(big.Int)
	}

	amount := new(big.Int).Set(e)
	e.SetInt64(0)

	b, ok := t.balances[to]
	if !ok {
		b = new(big.Int)
		t.balances[to] = b
	}
	b.Add(b, amount)
	return amount
}
