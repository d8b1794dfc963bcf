package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/ledger"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// EventMonitor 结算合约事件监控器
//
// 批量拉取合约日志，解析后写入事件表并刷新镜像模型。
// 事件行以 (tx_hash, log_index) 去重，重放是幂等的。
type EventMonitor struct {
	client    *ledger.Client
	contract  *ledger.Contract
	db        *gorm.DB
	processor *EventProcessor
	pool      *ants.Pool

	interval  time.Duration
	batchSize int64

	mu        sync.Mutex
	nextBlock int64
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(client *ledger.Client, contract *ledger.Contract, db *gorm.DB, cfg config.MonitorConfig) (*EventMonitor, error) {
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &EventMonitor{
		client:    client,
		contract:  contract,
		db:        db,
		processor: NewEventProcessor(db),
		pool:      pool,
		interval:  time.Duration(cfg.Interval) * time.Second,
		batchSize: cfg.BatchSize,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start 启动监控
func (m *EventMonitor) Start() error {
	logger.Info("Starting settlement event monitor")

	// 测试 RPC 连接
	currentBlock, err := m.client.BlockHeight(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to ledger: %w", err)
	}
	logger.Info("Connected to ledger, current block: %d", currentBlock)

	m.mu.Lock()
	m.nextBlock = m.resolveStartBlock()
	m.mu.Unlock()
	logger.Info("Starting monitor from block %d", m.nextBlock)

	go m.loop()
	return nil
}

// Stop 停止监控
func (m *EventMonitor) Stop() {
	logger.Info("Stopping settlement event monitor")
	m.cancel()
	m.pool.Release()
}

// resolveStartBlock 确定起始区块：已处理的最高区块之后，否则合约部署区块
func (m *EventMonitor) resolveStartBlock() int64 {
	var maxProcessed int64
	m.db.Model(&model.ChainEventModel{}).
		Select("COALESCE(MAX(block_num), 0)").
		Scan(&maxProcessed)

	if maxProcessed > 0 {
		return maxProcessed + 1
	}
	return m.contract.GetBlockNum()
}

// loop 监控循环
func (m *EventMonitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Monitor stopped")
			return
		case <-ticker.C:
			if err := m.poll(); err != nil {
				logger.Error("Monitor poll failed: %v", err)
			}
		}
	}
}

// poll 单轮轮询
func (m *EventMonitor) poll() error {
	currentBlock, err := m.client.BlockHeight(m.ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	from := m.nextBlock
	m.mu.Unlock()

	to := int64(currentBlock)
	if from > to {
		return nil
	}

	// 分批处理区块，避免单次查询范围过大
	for currentFrom := from; currentFrom <= to; currentFrom += m.batchSize {
		currentTo := currentFrom + m.batchSize - 1
		if currentTo > to {
			currentTo = to
		}

		if err := m.processRange(currentFrom, currentTo); err != nil {
			return fmt.Errorf("error processing blocks %d-%d: %w", currentFrom, currentTo, err)
		}

		m.mu.Lock()
		m.nextBlock = currentTo + 1
		m.mu.Unlock()
	}

	return nil
}

// processRange 处理一段区块范围的日志
func (m *EventMonitor) processRange(fromBlock, toBlock int64) error {
	logger.Debug("Processing blocks %d to %d", fromBlock, toBlock)

	// 适配器不做重试，可重试错误在这里退避重试
	logs, err := retry.DoWithData(
		func() ([]types.Log, error) {
			return m.client.FilterLogs(m.ctx, []common.Address{m.contract.GetAddress()}, fromBlock, toBlock)
		},
		retry.Context(m.ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.RetryIf(ledger.IsRetryable),
	)
	if err != nil {
		return err
	}

	if len(logs) == 0 {
		return nil
	}
	logger.Info("Found %d logs in blocks %d-%d", len(logs), fromBlock, toBlock)

	// 合约即分组：池承载分组任务，组内按区块顺序串行，
	// 同一会话/项目的事件不会互相覆盖计数
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	var wg sync.WaitGroup
	var groupErr error
	wg.Add(1)
	if err := m.pool.Submit(func() {
		defer wg.Done()
		groupErr = m.handleLogs(logs)
	}); err != nil {
		wg.Done()
		return fmt.Errorf("failed to submit log batch to pool: %w", err)
	}
	wg.Wait()

	return groupErr
}

// handleLogs 按顺序处理一组日志
//
// 处理失败即中断：nextBlock 不前进，整段区块下一轮重试，
// 事件表的去重保证重试不产生重复副作用。
func (m *EventMonitor) handleLogs(logs []types.Log) error {
	for _, lg := range logs {
		parsed, err := m.contract.ParseEvent(lg)
		if err != nil {
			logger.Error("Failed to parse event in tx %s: %v", lg.TxHash.Hex(), err)
			continue
		}

		if err := m.processor.Process(parsed); err != nil {
			return fmt.Errorf("failed to process event %v in tx %s: %w",
				parsed["eventType"], lg.TxHash.Hex(), err)
		}
	}
	return nil
}
