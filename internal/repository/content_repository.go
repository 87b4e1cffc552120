package repository

import (
	"context"
	"errors"

	"github.com/Navaneeth433/Murdermystery/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: tx}
}

func (r *ContentRepository) Create(ctx context.Context, content *model.Content) error {
	return r.DB.WithContext(ctx).Create(content).Error
}

func (r *ContentRepository) Update(ctx context.Context, content *model.Content) error {
	return r.DB.WithContext(ctx).Save(content).Error
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content
	err := r.DB.WithContext(ctx).First(&content, id).Error
	return &content, err
}

// FindByChapterNumber 编号重复时取 id 最小的一条；不存在时返回 (nil, nil)
func (r *ContentRepository) FindByChapterNumber(ctx context.Context, number int) (*model.Content, error) {
	var content model.Content
	err := r.DB.WithContext(ctx).
		Where("chapter_number = ?", number).
		Order("id asc").
		First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) ListOrdered(ctx context.Context) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.WithContext(ctx).Order("chapter_number asc").Order("id asc").Find(&contents).Error
	return contents, err
}

// MaxChapterNumber 库中没有章节时返回 0
func (r *ContentRepository) MaxChapterNumber(ctx context.Context) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).Model(&model.Content{}).
		Select("COALESCE(MAX(chapter_number), 0)").
		Row().Scan(&max)
	return max, err
}

// Delete 先删尝试再删章节，不依赖外键级联
func (r *ContentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Content{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}
