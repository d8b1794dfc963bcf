package service

import (
	"fmt"
	"math/big"
	"strings"
)

// TokenDecimals 代币精度：10^18 最小单位 = 1 代币
const TokenDecimals = 18

// unitScale 固定换算因子
var unitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

// ToUnits 将人类可读的十进制金额转换为最小代币单位
//
// 只在服务边界做换算，状态机内部全程整数运算。
// 精度超过18位小数的输入被拒绝，不做静默舍入。
func ToUnits(decimal string) (*big.Int, error) {
	decimal = strings.TrimSpace(decimal)
	r, ok := new(big.Rat).SetString(decimal)
	if !ok {
		return nil, fmt.Errorf("无法解析金额: %q", decimal)
	}

	r.Mul(r, new(big.Rat).SetInt(unitScale))
	if !r.IsInt() {
		return nil, fmt.Errorf("金额 %q 超出%d位小数精度", decimal, TokenDecimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FromUnits 将最小代币单位转换为十进制字符串（仅用于展示边界）
func FromUnits(units *big.Int) string {
	if units == nil {
		return "0"
	}

	neg := units.Sign() < 0
	abs := new(big.Int).Abs(units)

	quo, rem := new(big.Int).QuoRem(abs, unitScale, new(big.Int))
	s := quo.String()
	if rem.Sign() != 0 {
		frac := fmt.Sprintf("%018s", rem.String())
		frac = strings.TrimRight(frac, "0")
		s = s + "." + frac
	}
	if neg {
		s = "-" + s
	}
	return s
}
