package service_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/blues/fgs/internal/model"
	"github.com/blues/fgs/internal/service"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvoker 记录调用并返回预置结果的合约假实现
type fakeInvoker struct {
	lastFn   string
	lastArgs []interface{}
	results  map[string][]interface{}
	nextHash common.Hash
}

func (f *fakeInvoker) Call(ctx context.Context, results *[]interface{}, fn string, args ...interface{}) error {
	f.lastFn = fn
	f.lastArgs = args
	*results = f.results[fn]
	return nil
}

func (f *fakeInvoker) Invoke(ctx context.Context, key *ecdsa.PrivateKey, fn string, args ...interface{}) (common.Hash, error) {
	f.lastFn = fn
	f.lastArgs = args
	return f.nextHash, nil
}

// testKey 测试私钥（十六进制）
func testKey(t *testing.T) string {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return common.Bytes2Hex(crypto.FromECDSA(key))
}

func TestChainSettlementInvocations(t *testing.T) {
	invoker := &fakeInvoker{nextHash: common.HexToHash("0xbeef")}
	db := newTestDB(t)
	svc := service.NewChainSettlement(invoker, db)
	ctx := context.Background()
	key := testKey(t)

	t.Run("CreateProject", func(t *testing.T) {
		hash, err := svc.CreateProject(ctx, key, 1, ownerA, "1000", 30)
		require.NoError(t, err)
		assert.Equal(t, invoker.nextHash.Hex(), hash)
		assert.Equal(t, "createProject", invoker.lastFn)

		// 金额在边界换算为最小代币单位
		goal := invoker.lastArgs[2].(*big.Int)
		assert.Equal(t, mustUnits(t, "1000").String(), goal.String())

		// 待确认交易被跟踪
		var tx model.TransactionModel
		require.NoError(t, db.First(&tx, "tx_hash = ?", hash).Error)
		assert.Equal(t, model.TxKindCreateProject, tx.Kind)
		assert.Equal(t, model.TxStatusPending, tx.Status)
	})

	t.Run("Vote", func(t *testing.T) {
		_, err := svc.Vote(ctx, key, 7, true)
		require.NoError(t, err)
		assert.Equal(t, "vote", invoker.lastFn)
		assert.Equal(t, int64(7), invoker.lastArgs[0].(*big.Int).Int64())
		assert.Equal(t, true, invoker.lastArgs[1])
	})

	t.Run("非法私钥", func(t *testing.T) {
		_, err := svc.FundProject(ctx, "not-a-key", 1, "10")
		assert.Error(t, err)
	})

	t.Run("非法金额", func(t *testing.T) {
		_, err := svc.FundProject(ctx, key, 1, "1.0000000000000000001")
		assert.Error(t, err)
	})
}

func TestChainSettlementReads(t *testing.T) {
	deadline := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	invoker := &fakeInvoker{
		results: map[string][]interface{}{
			"getProjectDetails": {
				common.HexToAddress(ownerA),
				mustUnits(t, "1000"),
				mustUnits(t, "600"),
				big.NewInt(deadline.Unix()),
				false,
				false,
			},
			"getVotingSessionDetails": {
				big.NewInt(1),
				big.NewInt(deadline.Unix()),
				big.NewInt(deadline.Add(7 * 24 * time.Hour).Unix()),
				mustUnits(t, "300"),
				mustUnits(t, "200"),
				true,
			},
		},
	}
	svc := service.NewChainSettlement(invoker, nil)
	ctx := context.Background()

	p, err := svc.GetProjectDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(ownerA).Hex(), p.Owner)
	assert.Equal(t, "1000", p.FundingGoal)
	assert.Equal(t, "600", p.CurrentFunding)
	assert.Equal(t, deadline, p.Deadline)
	assert.False(t, p.Funded)

	s, err := svc.GetVotingSessionDetails(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ProjectID)
	assert.Equal(t, "300", s.YesVotes)
	assert.Equal(t, "200", s.NoVotes)
	assert.True(t, s.Finalized)
	assert.True(t, s.Passed)
}
