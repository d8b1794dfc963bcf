package engine

import "errors"

// 输入校验失败（调用方参数问题，不可重试）
var (
	ErrDuplicateProjectID = errors.New("项目ID已存在")
	ErrDuplicateSessionID = errors.New("投票会话ID已存在")
	ErrInvalidOwner       = errors.New("项目所有者地址无效")
	ErrInvalidGoal        = errors.New("目标金额必须大于0")
	ErrInvalidAmount      = errors.New("出资金额必须大于0")
)

// 引用完整性失败（不可重试）
var (
	ErrProjectNotFound = errors.New("项目不存在")
	ErrSessionNotFound = errors.New("投票会话不存在")
	ErrSessionMismatch = errors.New("投票会话与项目不匹配")
)

// 状态机前置条件失败（不可重试；任何状态都未被修改）
var (
	ErrDeadlinePassed     = errors.New("项目已过截止时间")
	ErrAlreadyFunded      = errors.New("项目已达成融资目标")
	ErrAlreadyReleased    = errors.New("资金已释放")
	ErrAlreadyVoted       = errors.New("该账户已在本会话投过票")
	ErrAlreadyFinalized   = errors.New("投票会话已终局")
	ErrVotingNotOpen      = errors.New("投票窗口未开放")
	ErrVotingStillOpen    = errors.New("投票窗口尚未结束")
	ErrVotingNotFinalized = errors.New("投票会话尚未终局")
	ErrVoteNotPassed      = errors.New("投票未通过")
	ErrNotFunded          = errors.New("项目未达成融资目标")
)

// 资源/授权不足
var (
	ErrInsufficientBalance = errors.New("代币余额不足")
	ErrNoVotingPower       = errors.New("无投票权（余额为0）")
	ErrNotAuthorized       = errors.New("无操作权限")
)
