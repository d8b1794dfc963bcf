package engine_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/blues/fgs/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFundedVotedFixture 项目已满额、会话已投票（300赞成/200反对）的夹具
func newFundedVotedFixture(t *testing.T) *fixture {
	f := newFixture(t)
	require.NoError(t, f.engine.CreateProject(f.cap, 1, ownerA, big.NewInt(1000), 30))
	f.mint(t, accountX, 900)
	f.mint(t, accountY, 600)
	require.NoError(t, f.engine.FundProject(accountX, 1, big.NewInt(600)))
	require.NoError(t, f.engine.FundProject(accountY, 1, big.NewInt(400)))

	require.NoError(t, f.engine.CreateSession(f.cap, 1, 1, 7))
	require.NoError(t, f.engine.CastVote(accountX, 1, true))  // 余额 300
	require.NoError(t, f.engine.CastVote(accountY, 1, false)) // 余额 200
	return f
}

func TestReleaseFunds(t *testing.T) {
	t.Run("投票通过后释放", func(t *testing.T) {
		f := newFundedVotedFixture(t)
		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1))

		require.NoError(t, f.engine.ReleaseFunds(f.cap, 1, 1))

		p, _ := f.engine.GetProject(1)
		assert.True(t, p.FundsReleased)
		assert.True(t, p.Funded) // FundsReleased 蕴含 Funded
		assert.Equal(t, int64(1000), f.engine.BalanceOf(ownerA).Int64())

		ev, ok := f.lastEvent(t).(engine.FundsReleasedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(1000), ev.Amount.Int64())
		assert.Equal(t, ownerA, ev.Owner)

		// 重复释放被拒绝，所有者余额不变
		err := f.engine.ReleaseFunds(f.cap, 1, 1)
		assert.ErrorIs(t, err, engine.ErrAlreadyReleased)
		assert.Equal(t, int64(1000), f.engine.BalanceOf(ownerA).Int64())
	})

	t.Run("投票未通过", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.engine.CreateProject(f.cap, 1, ownerA, big.NewInt(1000), 30))
		f.mint(t, accountX, 1200)
		f.mint(t, accountY, 300)
		require.NoError(t, f.engine.FundProject(accountX, 1, big.NewInt(1000)))

		require.NoError(t, f.engine.CreateSession(f.cap, 1, 1, 7))
		require.NoError(t, f.engine.CastVote(accountX, 1, true))  // 赞成 200（出资后剩余）
		require.NoError(t, f.engine.CastVote(accountY, 1, false)) // 反对 300

		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1))

		s, _ := f.engine.GetSession(1)
		assert.Equal(t, int64(200), s.YesVotes.Int64())
		assert.Equal(t, int64(300), s.NoVotes.Int64())

		err := f.engine.ReleaseFunds(f.cap, 1, 1)
		assert.ErrorIs(t, err, engine.ErrVoteNotPassed)

		p, _ := f.engine.GetProject(1)
		assert.False(t, p.FundsReleased)
		assert.Zero(t, f.engine.BalanceOf(ownerA).Sign())
	})

	t.Run("未终局", func(t *testing.T) {
		f := newFundedVotedFixture(t)
		err := f.engine.ReleaseFunds(f.cap, 1, 1)
		assert.ErrorIs(t, err, engine.ErrVotingNotFinalized)
	})

	t.Run("未满额", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.engine.CreateProject(f.cap, 1, ownerA, big.NewInt(1000), 30))
		require.NoError(t, f.engine.CreateSession(f.cap, 1, 1, 7))

		err := f.engine.ReleaseFunds(f.cap, 1, 1)
		assert.ErrorIs(t, err, engine.ErrNotFunded)
	})

	t.Run("会话项目不匹配", func(t *testing.T) {
		f := newFundedVotedFixture(t)
		require.NoError(t, f.engine.CreateProject(f.cap, 2, ownerA, big.NewInt(500), 30))
		require.NoError(t, f.engine.CreateSession(f.cap, 2, 2, 7))
		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1))
		require.NoError(t, f.engine.FinalizeSession(accountZ, 2))

		err := f.engine.ReleaseFunds(f.cap, 1, 2)
		assert.ErrorIs(t, err, engine.ErrSessionMismatch)
	})

	t.Run("项目不存在", func(t *testing.T) {
		f := newFixture(t)
		err := f.engine.ReleaseFunds(f.cap, 42, 1)
		assert.ErrorIs(t, err, engine.ErrProjectNotFound)
	})

	t.Run("会话不存在", func(t *testing.T) {
		f := newFundedVotedFixture(t)
		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1))

		err := f.engine.ReleaseFunds(f.cap, 1, 42)
		assert.ErrorIs(t, err, engine.ErrSessionNotFound)
	})

	t.Run("非法凭证", func(t *testing.T) {
		f := newFundedVotedFixture(t)
		other := newFixture(t)
		err := f.engine.ReleaseFunds(other.cap, 1, 1)
		assert.ErrorIs(t, err, engine.ErrNotAuthorized)
	})
}
