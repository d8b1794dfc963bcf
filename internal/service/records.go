package service

import (
	"fmt"

	"github.com/blues/fgs/internal/model"
	"gorm.io/gorm"
)

// RecordLogic 出资与投票记录的读路径
type RecordLogic struct {
	db *gorm.DB
}

// NewRecordLogic 创建记录查询逻辑
func NewRecordLogic(db *gorm.DB) *RecordLogic {
	return &RecordLogic{db: db}
}

// ListContributions 获取项目出资记录（分页）
func (r *RecordLogic) ListContributions(projectID int64, page, pageSize int) ([]model.ContributionModel, int64, error) {
	var records []model.ContributionModel
	var total int64

	if err := r.db.Model(&model.ContributionModel{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.Where("project_id = ?", projectID).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListVotes 获取会话投票记录（分页）
func (r *RecordLogic) ListVotes(sessionID int64, page, pageSize int) ([]model.VoteRecordModel, int64, error) {
	var records []model.VoteRecordModel
	var total int64

	if err := r.db.Model(&model.VoteRecordModel{}).Where("session_id = ?", sessionID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.Where("session_id = ?", sessionID).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ContributionStats 获取项目出资统计信息
func (r *RecordLogic) ContributionStats(projectID int64) (map[string]interface{}, error) {
	var stats struct {
		TotalContributions int64 `json:"total_contributions"`
		UniqueContributors int64 `json:"unique_contributors"`
	}

	if err := r.db.Model(&model.ContributionModel{}).Where("project_id = ?", projectID).Count(&stats.TotalContributions).Error; err != nil {
		return nil, fmt.Errorf("获取出资记录数失败: %w", err)
	}

	if err := r.db.Model(&model.ContributionModel{}).Where("project_id = ?", projectID).
		Distinct("address").Count(&stats.UniqueContributors).Error; err != nil {
		return nil, fmt.Errorf("获取出资人数失败: %w", err)
	}

	return map[string]interface{}{
		"project_id":          projectID,
		"total_contributions": stats.TotalContributions,
		"unique_contributors": stats.UniqueContributors,
	}, nil
}

// ListPendingTransactions 获取待确认交易
func (r *RecordLogic) ListPendingTransactions(limit int) ([]model.TransactionModel, error) {
	var records []model.TransactionModel
	if err := r.db.Where("status = ?", model.TxStatusPending).
		Order("submitted_at ASC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
