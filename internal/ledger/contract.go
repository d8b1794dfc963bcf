package ledger

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SettlementContractName 结算合约名称
const SettlementContractName = "settlement"

// Contract 结算合约包装器
type Contract struct {
	client   *Client
	bound    *bind.BoundContract
	address  common.Address
	abi      abi.ABI
	name     string
	blockNum int64
}

// NewContract 创建合约实例
//
// 配置了 abi_path 时从文件加载（支持原始ABI数组和完整编译输出），
// 否则使用内置的结算合约ABI。
func NewContract(client *Client, cfg config.ContractConfig) (*Contract, error) {
	parsedABI, err := loadABI(cfg.ABIPath)
	if err != nil {
		return nil, err
	}

	contractAddr := common.HexToAddress(cfg.Address)

	var bound *bind.BoundContract
	if client != nil {
		bound = bind.NewBoundContract(contractAddr, parsedABI, client.rpc, client.rpc, client.rpc)
	}

	return &Contract{
		client:   client,
		bound:    bound,
		address:  contractAddr,
		abi:      parsedABI,
		name:     SettlementContractName,
		blockNum: cfg.BlockNum,
	}, nil
}

// loadABI 加载合约ABI
func loadABI(abiPath string) (abi.ABI, error) {
	if abiPath == "" {
		return abi.JSON(strings.NewReader(settlementABI))
	}

	abiData, err := os.ReadFile(abiPath)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to load ABI from %s: %w", abiPath, err)
	}

	// 尝试解析为完整的编译输出文件
	var compiledOutput struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(abiData, &compiledOutput); err == nil && compiledOutput.ABI != nil {
		parsed, err := abi.JSON(bytes.NewReader(compiledOutput.ABI))
		if err != nil {
			return abi.ABI{}, fmt.Errorf("failed to parse ABI from compiled output: %w", err)
		}
		return parsed, nil
	}

	// 直接解析为ABI数组
	parsed, err := abi.JSON(bytes.NewReader(abiData))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// GetAddress 获取合约地址
func (c *Contract) GetAddress() common.Address {
	return c.address
}

// GetABI 获取合约ABI
func (c *Contract) GetABI() abi.ABI {
	return c.abi
}

// GetBlockNum 获取合约部署区块号
func (c *Contract) GetBlockNum() int64 {
	return c.blockNum
}

// Call 只读合约调用，不产生交易，不等待确认
func (c *Contract) Call(ctx context.Context, results *[]interface{}, fn string, args ...interface{}) error {
	if _, ok := c.abi.Methods[fn]; !ok {
		return &ContractInterfaceError{Contract: c.name, Function: fn}
	}

	ctx, cancel := context.WithTimeout(ctx, c.client.callTimeout)
	defer cancel()

	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, results, fn, args...); err != nil {
		if strings.Contains(err.Error(), "abi") || strings.Contains(err.Error(), "argument") {
			return &ContractInterfaceError{Contract: c.name, Function: fn, Err: err}
		}
		return &ConnectivityError{Op: "call:" + fn, Err: err}
	}
	return nil
}

// Invoke 状态变更合约调用
//
// 即发即走：返回交易哈希，确认由调用方轮询。
func (c *Contract) Invoke(ctx context.Context, key *ecdsa.PrivateKey, fn string, args ...interface{}) (common.Hash, error) {
	if _, ok := c.abi.Methods[fn]; !ok {
		return common.Hash{}, &ContractInterfaceError{Contract: c.name, Function: fn}
	}

	data, err := c.abi.Pack(fn, args...)
	if err != nil {
		return common.Hash{}, &ContractInterfaceError{Contract: c.name, Function: fn, Err: err}
	}

	return c.client.SubmitTransaction(ctx, key, c.address, new(big.Int), data)
}

// ParseEvent 解析事件日志
func (c *Contract) ParseEvent(log types.Log) (map[string]interface{}, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}
	eventSignature := log.Topics[0].Hex()

	// 遍历ABI中的事件
	for eventName, event := range c.abi.Events {
		if event.ID.Hex() == eventSignature {
			return c.parseEvent(eventName, log, event)
		}
	}

	// 未知事件
	logger.Warn("Unknown event signature: %s in contract %s", eventSignature, c.name)
	return map[string]interface{}{
		"eventType":   "Unknown",
		"signature":   eventSignature,
		"contract":    c.name,
		"txHash":      log.TxHash.Hex(),
		"blockNumber": log.BlockNumber,
		"logIndex":    log.Index,
	}, nil
}

// parseEvent 解析事件
func (c *Contract) parseEvent(eventName string, log types.Log, event abi.Event) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	result["eventType"] = eventName
	result["contract"] = c.name
	result["txHash"] = log.TxHash.Hex()
	result["blockNumber"] = log.BlockNumber
	result["logIndex"] = log.Index

	// 解析索引参数
	topicIdx := 1
	for _, input := range event.Inputs {
		if !input.Indexed {
			continue
		}
		if topicIdx >= len(log.Topics) {
			break
		}
		value, err := c.parseTopicValue(log.Topics[topicIdx], input.Type)
		if err != nil {
			logger.Warn("Failed to parse indexed parameter %s: %v", input.Name, err)
		} else {
			result[input.Name] = value
		}
		topicIdx++
	}

	// 解析非索引参数
	if len(log.Data) > 0 {
		nonIndexedInputs := make([]abi.Argument, 0)
		for _, input := range event.Inputs {
			if !input.Indexed {
				nonIndexedInputs = append(nonIndexedInputs, input)
			}
		}

		if len(nonIndexedInputs) > 0 {
			values, err := c.abi.Unpack(eventName, log.Data)
			if err != nil {
				logger.Warn("Failed to unpack non-indexed parameters: %v", err)
			} else {
				for i, input := range nonIndexedInputs {
					if i < len(values) {
						result[input.Name] = values[i]
					}
				}
			}
		}
	}

	return result, nil
}

// parseTopicValue 解析主题值
func (c *Contract) parseTopicValue(topic common.Hash, t abi.Type) (interface{}, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return new(big.Int).SetBytes(topic.Bytes()), nil
	case abi.AddressTy:
		return common.BytesToAddress(topic.Bytes()), nil
	case abi.BoolTy:
		return new(big.Int).SetBytes(topic.Bytes()).Sign() > 0, nil
	case abi.BytesTy:
		return topic.Bytes(), nil
	default:
		return topic.Hex(), nil
	}
}
