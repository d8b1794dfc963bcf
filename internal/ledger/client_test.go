package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmationDepth(t *testing.T) {
	cases := []struct {
		name   string
		height uint64
		block  uint64
		want   uint64
	}{
		{"所在区块即1次确认", 100, 100, 1},
		{"12个后续区块共13次确认", 112, 100, 13},
		{"恰好达到12次确认", 111, 100, 12},
		{"链头落后于交易区块", 99, 100, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, confirmationDepth(tc.height, tc.block))
		})
	}
}

func TestConfirmationThreshold(t *testing.T) {
	c := &Client{confirmations: 12}

	// 确认判定与明细里的确认数同一口径
	assert.False(t, confirmationDepth(110, 100) >= c.confirmations)
	assert.True(t, confirmationDepth(111, 100) >= c.confirmations)
}
