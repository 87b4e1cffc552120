package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Navaneeth433/Murdermystery/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

// Create 唯一索引冲突时返回 gorm.ErrDuplicatedKey（需要 TranslateError）
func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

// FindByUserAndContent 不存在时返回 (nil, nil)
func (r *AttemptRepository) FindByUserAndContent(ctx context.Context, userID, contentID uint) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) HasCompleted(ctx context.Context, userID, contentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("user_id = ? AND content_id = ? AND completed = ?", userID, contentID, true).
		Count(&count).Error
	return count > 0, err
}

// CountCompletedByOthers 其他用户在该章节上的已完成次数
func (r *AttemptRepository) CountCompletedByOthers(ctx context.Context, contentID, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("content_id = ? AND completed = ? AND user_id <> ?", contentID, true, userID).
		Count(&count).Error
	return count, err
}

type FinalizeFields struct {
	EndTime     time.Time
	TimeTaken   int
	Completed   bool
	Score       float64
	BonusPoints int
}

// Finalize 只更新尚未结算的记录，返回是否真正写入
func (r *AttemptRepository) Finalize(ctx context.Context, attemptID uint, f FinalizeFields) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND end_time IS NULL", attemptID).
		Updates(map[string]interface{}{
			"end_time":     f.EndTime,
			"time_taken":   f.TimeTaken,
			"completed":    f.Completed,
			"score":        f.Score,
			"bonus_points": f.BonusPoints,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListRecent 管理后台：最近开始的尝试
func (r *AttemptRepository) ListRecent(ctx context.Context, limit int) ([]model.AttemptRecord, error) {
	var rows []model.AttemptRecord
	err := r.DB.WithContext(ctx).Table("attempts").
		Select(`attempts.id AS attempt_id, users.name AS user_name, users.email AS user_email,
			contents.title AS content_title, contents.chapter_number AS chapter_number,
			attempts.start_time, attempts.end_time, attempts.time_taken, attempts.completed, attempts.score`).
		Joins("JOIN users ON users.id = attempts.user_id").
		Joins("JOIN contents ON contents.id = attempts.content_id").
		Order("attempts.start_time desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Leaderboard 按总分倒序；没有尝试或分数为空的用户记 0 分。limit <= 0 表示不限制
func (r *AttemptRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var rows []model.LeaderboardEntry
	q := r.DB.WithContext(ctx).Table("users").
		Select("users.id AS user_id, users.name AS name, users.email AS email, COALESCE(SUM(attempts.score), 0) AS total_score").
		Joins("LEFT JOIN attempts ON attempts.user_id = users.id").
		Group("users.id, users.name, users.email").
		Order("total_score desc").
		Order("users.id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&rows).Error
	return rows, err
}
