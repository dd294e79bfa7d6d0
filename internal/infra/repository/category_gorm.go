package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// カテゴリ作成。name/slugの一意制約違反はErrDuplicate
func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		return model.Category{}, translatePgError(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) List(ctx context.Context, page, limit int) ([]model.Category, int64, error) {
	var categories []model.Category
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Category{})

	if err := tx.Count(&total).Error; err != nil {
		return []model.Category{}, 0, err
	}

	offset := (page - 1) * limit
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return []model.Category{}, 0, err
	}

	return categories, total, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// 削除済みも対象にする取得
func (r *CategoryGormRepository) FindByIDUnscoped(ctx context.Context, id string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) Save(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(&c).Error; err != nil {
		return model.Category{}, translatePgError(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return r.db.WithContext(ctx).Unscoped().Model(&model.Category{}).
		Where("id = ?", id).
		Update("status", model.StatusDeleted).Error
}
