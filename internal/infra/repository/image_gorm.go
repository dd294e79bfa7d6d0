package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ImageGormRepository struct {
	db *gorm.DB
}

// DI
func NewImageGormRepository(db *gorm.DB) *ImageGormRepository {
	return &ImageGormRepository{db: db}
}

// 一括insert。idはBeforeCreateで採番される
func (r *ImageGormRepository) InsertMany(ctx context.Context, images []model.Image) ([]model.Image, error) {
	if err := r.db.WithContext(ctx).Create(&images).Error; err != nil {
		return nil, translatePgError(err)
	}
	return images, nil
}

// 削除済みの行も返す。呼び出し側が弾く判断をする
func (r *ImageGormRepository) FindByIDsUnscoped(ctx context.Context, ids []string) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// 未所有（entity_id IS NULL）の行だけを1文で条件付き更新する。
// 事前チェックはしない。RowsAffectedだけが競合の判定材料
func (r *ImageGormRepository) LinkUnowned(ctx context.Context, ids []string, entityID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Image{}).
		Where("id IN ? AND entity_id IS NULL", ids).
		Updates(map[string]interface{}{
			"status":    model.ImageStatusActive,
			"entity_id": entityID,
		})
	if res.Error != nil {
		return 0, translatePgError(res.Error)
	}
	return res.RowsAffected, nil
}

// entityIdの画像のうちkeepにないものをsoft delete（更新時の整理）
func (r *ImageGormRepository) SoftDeleteStale(ctx context.Context, entityID string, keep []string) (int64, error) {
	tx := r.db.WithContext(ctx).Where("entity_id = ?", entityID)
	if len(keep) > 0 {
		tx = tx.Where("id NOT IN ?", keep)
	}
	res := tx.Delete(&model.Image{})
	return res.RowsAffected, res.Error
}

// entity_id + entity_typeの全画像をsoft delete（エンティティ削除時）
func (r *ImageGormRepository) SoftDeleteByOwner(ctx context.Context, entityID string, t model.EntityType) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("entity_id = ? AND entity_type = ?", entityID, t).
		Delete(&model.Image{})
	return res.RowsAffected, res.Error
}

func (r *ImageGormRepository) SoftDeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Image{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
