package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/blues/fgs/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// 适配器边界上每次RPC调用的超时
const defaultCallTimeout = 15 * time.Second

// Client 账本适配器
//
// 封装链客户端：余额读取、交易提交与确认跟踪、合约调用。
// 不做自动重试，重试策略由调用方持有。
type Client struct {
	rpc           *ethclient.Client
	chainID       *big.Int
	confirmations uint64
	callTimeout   time.Duration
}

// TxDetails 交易明细
//
// 未上链的交易返回部分记录，区块相关字段为零值。
type TxDetails struct {
	Hash          string
	From          string
	To            string
	Value         *big.Int
	Mined         bool
	Succeeded     bool // 上链且执行成功
	BlockNum      uint64
	GasUsed       uint64
	GasPrice      *big.Int
	Timestamp     time.Time
	Confirmations uint64
}

// FeeEstimate 费用估算
//
// 尽力而为，链上竞争时可能失准，调用方不得当作约束性报价。
type FeeEstimate struct {
	GasLimit uint64
	GasPrice *big.Int
	Total    *big.Int
}

// Dial 连接链节点并验证连通性
func Dial(cfg config.ChainConfig) (*Client, error) {
	rpc, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, &ConnectivityError{Op: "dial", Err: err}
	}

	c := &Client{
		rpc:           rpc,
		chainID:       big.NewInt(cfg.ChainId),
		confirmations: uint64(cfg.Confirmations),
		callTimeout:   defaultCallTimeout,
	}

	// 测试连接
	if _, err := c.BlockHeight(context.Background()); err != nil {
		rpc.Close()
		return nil, err
	}
	return c, nil
}

// ParseKey 解析十六进制私钥
func ParseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
}

// KeyAddress 私钥对应的账户地址
func KeyAddress(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// Confirmations 配置的确认数
func (c *Client) Confirmations() uint64 {
	return c.confirmations
}

// BlockHeight 获取当前链高度
func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	height, err := c.rpc.BlockNumber(ctx)
	if err != nil {
		return 0, &ConnectivityError{Op: "blockHeight", Err: err}
	}
	return height, nil
}

// Balance 获取账户的原生币余额
func (c *Client) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	balance, err := c.rpc.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, &ConnectivityError{Op: "balance", Err: err}
	}
	return balance, nil
}

// VerifyTransaction 检查交易是否已确认
//
// 仅当交易已上链且确认数达到配置值时返回 true；
// 未知或未确认的交易返回 false 而非错误。
func (c *Client) VerifyTransaction(ctx context.Context, txHash common.Hash) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	receipt, err := c.rpc.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return false, nil
		}
		return false, &ConnectivityError{Op: "verifyTransaction", Err: err}
	}

	height, err := c.BlockHeight(ctx)
	if err != nil {
		return false, err
	}

	return confirmationDepth(height, receipt.BlockNumber.Uint64()) >= c.confirmations, nil
}

// confirmationDepth 区块确认深度：所在区块本身计为1次确认
func confirmationDepth(height, block uint64) uint64 {
	if height < block {
		return 0
	}
	return height - block + 1
}

// TransactionDetails 获取交易明细
//
// 交易不存在时返回 ErrTxNotFound；未上链的交易返回部分记录。
func (c *Client) TransactionDetails(ctx context.Context, txHash common.Hash) (*TxDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	tx, pending, err := c.rpc.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrTxNotFound
		}
		return nil, &ConnectivityError{Op: "transactionDetails", Err: err}
	}

	details := &TxDetails{
		Hash:     txHash.Hex(),
		Value:    tx.Value(),
		GasPrice: tx.GasPrice(),
	}
	if to := tx.To(); to != nil {
		details.To = to.Hex()
	}
	if from, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx); err == nil {
		details.From = from.Hex()
	}

	if pending {
		return details, nil
	}

	receipt, err := c.rpc.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return details, nil
		}
		return nil, &ConnectivityError{Op: "transactionDetails", Err: err}
	}

	details.Mined = true
	details.Succeeded = receipt.Status == types.ReceiptStatusSuccessful
	details.BlockNum = receipt.BlockNumber.Uint64()
	details.GasUsed = receipt.GasUsed

	if header, err := c.rpc.HeaderByNumber(ctx, receipt.BlockNumber); err == nil {
		details.Timestamp = time.Unix(int64(header.Time), 0)
	}
	if height, err := c.BlockHeight(ctx); err == nil {
		details.Confirmations = confirmationDepth(height, details.BlockNum)
	}

	return details, nil
}

// EstimateFee 估算交易费用
func (c *Client) EstimateFee(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (*FeeEstimate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	gasLimit, err := c.rpc.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, wrapRPCError("estimateFee", from.Hex(), err)
	}

	gasPrice, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return nil, &ConnectivityError{Op: "estimateFee", Err: err}
	}

	total := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return &FeeEstimate{
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		Total:    total,
	}, nil
}

// SubmitTransaction 签名并提交交易
//
// 即发即走：返回交易哈希后不等待确认，调用方需轮询
// VerifyTransaction/TransactionDetails。
func (c *Client) SubmitTransaction(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	from := KeyAddress(key)

	nonce, err := c.rpc.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, &ConnectivityError{Op: "submitTransaction", Err: err}
	}

	gasLimit, err := c.rpc.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, wrapRPCError("submitTransaction", from.Hex(), err)
	}

	tipCap, err := c.rpc.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, &ConnectivityError{Op: "submitTransaction", Err: err}
	}
	header, err := c.rpc.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, &ConnectivityError{Op: "submitTransaction", Err: err}
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(header.BaseFee, big.NewInt(2)))

	tx, err := types.SignNewTx(key, types.LatestSignerForChainID(c.chainID), &types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.rpc.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, wrapRPCError("submitTransaction", from.Hex(), err)
	}

	return tx.Hash(), nil
}

// FilterLogs 获取指定区块范围内合约地址的日志
func (c *Client) FilterLogs(ctx context.Context, addresses []common.Address, fromBlock, toBlock int64) ([]types.Log, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	logs, err := c.rpc.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: big.NewInt(fromBlock),
		ToBlock:   big.NewInt(toBlock),
		Addresses: addresses,
	})
	if err != nil {
		return nil, &ConnectivityError{Op: "filterLogs", Err: err}
	}
	return logs, nil
}

// Raw 底层链客户端
func (c *Client) Raw() *ethclient.Client {
	return c.rpc
}

// Close 关闭客户端
func (c *Client) Close() {
	c.rpc.Close()
}
