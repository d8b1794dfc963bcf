package engine_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/blues/fgs/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newVotingFixture 创建带一个项目和一个7天会话的夹具
func newVotingFixture(t *testing.T) *fixture {
	f := newFixture(t)
	require.NoError(t, f.engine.CreateProject(f.cap, 1, ownerA, big.NewInt(1000), 30))
	require.NoError(t, f.engine.CreateSession(f.cap, 1, 1, 7))
	return f
}

func TestCreateSession(t *testing.T) {
	t.Run("成功创建", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.engine.CreateProject(f.cap, 1, ownerA, big.NewInt(1000), 30))
		require.NoError(t, f.engine.CreateSession(f.cap, 1, 1, 7))

		s, err := f.engine.GetSession(1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), s.ProjectID)
		assert.Equal(t, f.clock.Now(), s.StartTime)
		assert.Equal(t, f.clock.Now().Add(7*24*time.Hour), s.EndTime)
		assert.False(t, s.Finalized)
	})

	t.Run("项目不存在", func(t *testing.T) {
		f := newFixture(t)
		err := f.engine.CreateSession(f.cap, 1, 42, 7)
		assert.ErrorIs(t, err, engine.ErrProjectNotFound)
	})

	t.Run("重复会话ID", func(t *testing.T) {
		f := newVotingFixture(t)
		err := f.engine.CreateSession(f.cap, 1, 1, 7)
		assert.ErrorIs(t, err, engine.ErrDuplicateSessionID)
	})
}

func TestCastVote(t *testing.T) {
	t.Run("加权计票", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 300)
		f.mint(t, accountY, 200)

		require.NoError(t, f.engine.CastVote(accountX, 1, true))
		require.NoError(t, f.engine.CastVote(accountY, 1, false))

		s, _ := f.engine.GetSession(1)
		assert.Equal(t, int64(300), s.YesVotes.Int64())
		assert.Equal(t, int64(200), s.NoVotes.Int64())
		assert.Len(t, s.HasVoted, 2)

		ev, ok := f.lastEvent(t).(engine.VoteCastEvent)
		require.True(t, ok)
		assert.Equal(t, accountY, ev.Voter)
		assert.Equal(t, int64(200), ev.Weight.Int64())
	})

	t.Run("重复投票", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 300)
		require.NoError(t, f.engine.CastVote(accountX, 1, true))

		err := f.engine.CastVote(accountX, 1, false)
		assert.ErrorIs(t, err, engine.ErrAlreadyVoted)

		// 计票不变
		s, _ := f.engine.GetSession(1)
		assert.Equal(t, int64(300), s.YesVotes.Int64())
		assert.Zero(t, s.NoVotes.Sign())
	})

	t.Run("零余额无投票权", func(t *testing.T) {
		f := newVotingFixture(t)
		err := f.engine.CastVote(accountZ, 1, true)
		assert.ErrorIs(t, err, engine.ErrNoVotingPower)

		// 失败不计入 HasVoted
		s, _ := f.engine.GetSession(1)
		assert.NotContains(t, s.HasVoted, accountZ)
	})

	t.Run("权重取投票时刻快照", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 100)
		require.NoError(t, f.engine.CastVote(accountX, 1, true))

		// 之后的余额变化不影响已计入的权重
		f.mint(t, accountX, 900)
		s, _ := f.engine.GetSession(1)
		assert.Equal(t, int64(100), s.YesVotes.Int64())
	})

	t.Run("endTime整点仍可投票", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 300)

		f.clock.Advance(7 * 24 * time.Hour) // 恰好等于 endTime
		require.NoError(t, f.engine.CastVote(accountX, 1, true))
	})

	t.Run("endTime之后拒绝投票", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 300)

		f.clock.Advance(7*24*time.Hour + time.Second)
		err := f.engine.CastVote(accountX, 1, true)
		assert.ErrorIs(t, err, engine.ErrVotingNotOpen)
	})

	t.Run("会话不存在", func(t *testing.T) {
		f := newFixture(t)
		err := f.engine.CastVote(accountX, 42, true)
		assert.ErrorIs(t, err, engine.ErrSessionNotFound)
	})
}

func TestFinalizeSession(t *testing.T) {
	t.Run("通过", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 300)
		f.mint(t, accountY, 200)
		require.NoError(t, f.engine.CastVote(accountX, 1, true))
		require.NoError(t, f.engine.CastVote(accountY, 1, false))

		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1)) // 任何人可终局

		s, _ := f.engine.GetSession(1)
		assert.True(t, s.Finalized)
		assert.True(t, s.Passed())

		ev, ok := f.lastEvent(t).(engine.VotingSessionFinalizedEvent)
		require.True(t, ok)
		assert.True(t, ev.Passed)
	})

	t.Run("平票视为未通过", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 200)
		f.mint(t, accountY, 200)
		require.NoError(t, f.engine.CastVote(accountX, 1, true))
		require.NoError(t, f.engine.CastVote(accountY, 1, false))

		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1))

		s, _ := f.engine.GetSession(1)
		assert.False(t, s.Passed())
	})

	t.Run("窗口未结束", func(t *testing.T) {
		f := newVotingFixture(t)
		err := f.engine.FinalizeSession(accountZ, 1)
		assert.ErrorIs(t, err, engine.ErrVotingStillOpen)

		// endTime 整点仍视为未结束
		f.clock.Advance(7 * 24 * time.Hour)
		err = f.engine.FinalizeSession(accountZ, 1)
		assert.ErrorIs(t, err, engine.ErrVotingStillOpen)
	})

	t.Run("重复终局", func(t *testing.T) {
		f := newVotingFixture(t)
		f.mint(t, accountX, 300)
		require.NoError(t, f.engine.CastVote(accountX, 1, true))

		f.clock.Advance(7*24*time.Hour + time.Second)
		require.NoError(t, f.engine.FinalizeSession(accountZ, 1))

		err := f.engine.FinalizeSession(accountZ, 1)
		assert.ErrorIs(t, err, engine.ErrAlreadyFinalized)

		// 第二次调用不改变任何状态
		s, _ := f.engine.GetSession(1)
		assert.True(t, s.Finalized)
		assert.Equal(t, int64(300), s.YesVotes.Int64())
		assert.Zero(t, s.NoVotes.Sign())
	})

	t.Run("会话不存在", func(t *testing.T) {
		f := newFixture(t)
		err := f.engine.FinalizeSession(accountZ, 42)
		assert.ErrorIs(t, err, engine.ErrSessionNotFound)
	})
}
