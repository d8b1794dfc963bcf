package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ConnectivityError 传输层/节点故障，可重试
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("ledger connectivity failure in %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ContractInterfaceError ABI或函数不匹配，不可重试，通常意味着部署版本偏差
type ContractInterfaceError struct {
	Contract string
	Function string
	Err      error
}

func (e *ContractInterfaceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("contract interface mismatch: %s.%s: %v", e.Contract, e.Function, e.Err)
	}
	return fmt.Sprintf("contract interface mismatch: %s.%s", e.Contract, e.Function)
}

func (e *ContractInterfaceError) Unwrap() error { return e.Err }

// InsufficientFundsError 账户余额不足以支付转账或燃料费
type InsufficientFundsError struct {
	Address string
	Err     error
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: %v", e.Address, e.Err)
}

func (e *InsufficientFundsError) Unwrap() error { return e.Err }

// ErrTxNotFound 交易不存在
var ErrTxNotFound = errors.New("transaction not found")

// IsRetryable 判断错误是否可重试。
// 适配器本身不做重试，重试策略由调用方持有。
func IsRetryable(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// wrapRPCError 将底层RPC错误归类到错误分类
func wrapRPCError(op, from string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "insufficient funds") {
		return &InsufficientFundsError{Address: from, Err: err}
	}
	return &ConnectivityError{Op: op, Err: err}
}
