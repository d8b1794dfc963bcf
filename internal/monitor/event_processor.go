package monitor

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventProcessor 按事件类型刷新镜像模型
type EventProcessor struct {
	db *gorm.DB
}

// NewEventProcessor 创建事件处理器
func NewEventProcessor(db *gorm.DB) *EventProcessor {
	return &EventProcessor{db: db}
}

// Process 处理已解析的事件
//
// 先落事件行（去重），再按类型刷新镜像；同一事件重放不产生重复副作用。
func (p *EventProcessor) Process(ev map[string]interface{}) error {
	eventType, _ := ev["eventType"].(string)
	txHash, _ := ev["txHash"].(string)
	blockNum, _ := ev["blockNumber"].(uint64)
	logIndex, _ := ev["logIndex"].(uint)

	record := model.ChainEventModel{
		EventType: eventType,
		TxHash:    txHash,
		LogIndex:  logIndex,
		BlockNum:  blockNum,
		Data:      serializeEvent(ev),
	}

	result := p.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to store event: %w", result.Error)
	}
	// (tx_hash, log_index) 冲突说明该事件已落库；
	// 镜像刷新完成的才跳过，半途失败的重放继续处理
	if result.RowsAffected == 0 {
		var existing model.ChainEventModel
		if err := p.db.Where("tx_hash = ? AND log_index = ?", txHash, logIndex).
			First(&existing).Error; err != nil {
			return fmt.Errorf("failed to load event record: %w", err)
		}
		if existing.Processed {
			logger.Debug("Event %s already processed (tx %s log %d)", eventType, txHash, logIndex)
			return nil
		}
	}

	var err error
	switch eventType {
	case "ProjectCreated":
		err = p.onProjectCreated(ev)
	case "ProjectFunded":
		err = p.onProjectFunded(ev)
	case "VotingSessionCreated":
		err = p.onSessionCreated(ev)
	case "VoteCast":
		err = p.onVoteCast(ev)
	case "VotingSessionFinalized":
		err = p.onSessionFinalized(ev)
	case "FundsReleased":
		err = p.onFundsReleased(ev)
	default:
		logger.Warn("Ignoring event of unknown type: %s", eventType)
	}
	if err != nil {
		return err
	}

	// 镜像刷新完成后标记事件
	return p.db.Model(&model.ChainEventModel{}).
		Where("tx_hash = ? AND log_index = ?", txHash, logIndex).
		Update("processed", true).Error
}

// onProjectCreated 项目创建事件：镜像行转为确认态
func (p *EventProcessor) onProjectCreated(ev map[string]interface{}) error {
	projectID := toInt64(ev["projectId"])
	deadline := time.Unix(toInt64(ev["deadline"]), 0).UTC()

	record := model.ProjectModel{
		Id:             projectID,
		Owner:          toAddress(ev["owner"]),
		FundingGoal:    toBigString(ev["fundingGoal"]),
		CurrentFunding: "0",
		Deadline:       deadline,
		TxHash:         toString(ev["txHash"]),
		Status:         model.TxStatusConfirmed,
	}

	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "funding_goal", "deadline", "status"}),
	}).Create(&record).Error
}

// onProjectFunded 出资事件：出资记录 + 累计金额
func (p *EventProcessor) onProjectFunded(ev map[string]interface{}) error {
	projectID := toInt64(ev["projectId"])
	amount := toBigString(ev["amount"])

	logIndex, _ := ev["logIndex"].(uint)
	blockNum, _ := ev["blockNumber"].(uint64)
	record := model.ContributionModel{
		ProjectId: projectID,
		Address:   toAddress(ev["contributor"]),
		Amount:    amount,
		TxHash:    toString(ev["txHash"]),
		LogIndex:  logIndex,
		BlockNum:  blockNum,
	}
	if err := p.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}

	// 项目行缺失说明事件乱序到达，失败且不标记，等项目镜像就位后重试
	var project model.ProjectModel
	if err := p.db.First(&project, "id = ?", projectID).Error; err != nil {
		return fmt.Errorf("ProjectFunded for project %d not yet mirrored: %w", projectID, err)
	}

	current := addBigStrings(project.CurrentFunding, amount)
	updates := map[string]interface{}{"current_funding": current}

	goal, okGoal := new(big.Int).SetString(project.FundingGoal, 10)
	cur, okCur := new(big.Int).SetString(current, 10)
	if okGoal && okCur && cur.Cmp(goal) >= 0 {
		updates["funded"] = true
	}

	return p.db.Model(&model.ProjectModel{}).Where("id = ?", projectID).Updates(updates).Error
}

// onSessionCreated 投票会话创建事件
func (p *EventProcessor) onSessionCreated(ev map[string]interface{}) error {
	record := model.VotingSessionModel{
		Id:        toInt64(ev["sessionId"]),
		ProjectId: toInt64(ev["projectId"]),
		StartTime: time.Unix(toInt64(ev["startTime"]), 0).UTC(),
		EndTime:   time.Unix(toInt64(ev["endTime"]), 0).UTC(),
		YesVotes:  "0",
		NoVotes:   "0",
		TxHash:    toString(ev["txHash"]),
		Status:    model.TxStatusConfirmed,
	}

	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"project_id", "start_time", "end_time", "status"}),
	}).Create(&record).Error
}

// onVoteCast 投票事件：投票记录 + 计票刷新
func (p *EventProcessor) onVoteCast(ev map[string]interface{}) error {
	sessionID := toInt64(ev["sessionId"])
	weight := toBigString(ev["weight"])
	inFavor, _ := ev["inFavor"].(bool)

	blockNum, _ := ev["blockNumber"].(uint64)
	record := model.VoteRecordModel{
		SessionId: sessionID,
		Voter:     toAddress(ev["voter"]),
		InFavor:   inFavor,
		Weight:    weight,
		TxHash:    toString(ev["txHash"]),
		BlockNum:  blockNum,
	}
	if err := p.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}

	// 会话行缺失说明事件乱序到达，失败且不标记，等会话镜像就位后重试
	var session model.VotingSessionModel
	if err := p.db.First(&session, "id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("VoteCast for session %d not yet mirrored: %w", sessionID, err)
	}

	updates := map[string]interface{}{}
	if inFavor {
		updates["yes_votes"] = addBigStrings(session.YesVotes, weight)
	} else {
		updates["no_votes"] = addBigStrings(session.NoVotes, weight)
	}

	return p.db.Model(&model.VotingSessionModel{}).Where("id = ?", sessionID).Updates(updates).Error
}

// onSessionFinalized 投票会话终局事件
func (p *EventProcessor) onSessionFinalized(ev map[string]interface{}) error {
	passed, _ := ev["passed"].(bool)
	return p.db.Model(&model.VotingSessionModel{}).
		Where("id = ?", toInt64(ev["sessionId"])).
		Updates(map[string]interface{}{"finalized": true, "passed": passed}).Error
}

// onFundsReleased 资金释放事件
func (p *EventProcessor) onFundsReleased(ev map[string]interface{}) error {
	return p.db.Model(&model.ProjectModel{}).
		Where("id = ?", toInt64(ev["projectId"])).
		Updates(map[string]interface{}{"funds_released": true, "funded": true}).Error
}

// serializeEvent 序列化事件数据（地址和大整数转为字符串）
func serializeEvent(ev map[string]interface{}) string {
	flat := make(map[string]interface{}, len(ev))
	for k, v := range ev {
		switch val := v.(type) {
		case *big.Int:
			flat[k] = val.String()
		case common.Address:
			flat[k] = val.Hex()
		default:
			flat[k] = val
		}
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return ""
	}
	return string(data)
}

// toInt64 从解析值中取int64
func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case *big.Int:
		return val.Int64()
	case int64:
		return val
	case uint64:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}

// toBigString 从解析值中取大整数的十进制字符串
func toBigString(v interface{}) string {
	switch val := v.(type) {
	case *big.Int:
		return val.String()
	case string:
		return val
	default:
		return "0"
	}
}

// toAddress 从解析值中取地址字符串
func toAddress(v interface{}) string {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case string:
		return val
	default:
		return ""
	}
}

// toString 从解析值中取字符串
func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// addBigStrings 两个十进制大整数字符串相加
func addBigStrings(a, b string) string {
	x, okX := new(big.Int).SetString(a, 10)
	y, okY := new(big.Int).SetString(b, 10)
	if !okX {
		x = new(big.Int)
	}
	if !okY {
		y = new(big.Int)
	}
	return new(big.Int).Add(x, y).String()
}
