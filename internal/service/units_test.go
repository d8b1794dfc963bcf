package service

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUnits(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "整数", in: "1000", want: "1000000000000000000000"},
		{name: "小数", in: "1.5", want: "1500000000000000000"},
		{name: "18位小数", in: "0.000000000000000001", want: "1"},
		{name: "零", in: "0", want: "0"},
		{name: "带空白", in: " 2 ", want: "2000000000000000000"},
		{name: "超出精度", in: "0.0000000000000000001", wantErr: true},
		{name: "非法输入", in: "abc", wantErr: true},
		{name: "空字符串", in: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToUnits(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestFromUnits(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "整代币", in: "1000000000000000000000", want: "1000"},
		{name: "带小数", in: "1500000000000000000", want: "1.5"},
		{name: "最小单位", in: "1", want: "0.000000000000000001"},
		{name: "零", in: "0", want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			units, ok := new(big.Int).SetString(tc.in, 10)
			require.True(t, ok)
			assert.Equal(t, tc.want, FromUnits(units))
		})
	}

	t.Run("nil视为零", func(t *testing.T) {
		assert.Equal(t, "0", FromUnits(nil))
	})
}

func TestRoundTrip(t *testing.T) {
	// 边界换算必须无损
	for _, s := range []string{"1000", "0.5", "123.456789", "0.000000000000000001"} {
		units, err := ToUnits(s)
		require.NoError(t, err)
		assert.Equal(t, s, FromUnits(units), "round trip of %s", s)
	}
}
