package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// カテゴリ・価格帯・statusの共通フィルタ
func applyProductFilter(tx *gorm.DB, f repo.ProductFilter) *gorm.DB {
	if f.CategoryID != "" {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}

	//価格帯。両端ありはBETWEEN（両端含む）
	switch {
	case f.PriceMin != nil && f.PriceMax != nil:
		tx = tx.Where("price BETWEEN ? AND ?", *f.PriceMin, *f.PriceMax)
	case f.PriceMin != nil:
		tx = tx.Where("price >= ?", *f.PriceMin)
	case f.PriceMax != nil:
		tx = tx.Where("price <= ?", *f.PriceMax)
	}

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	return tx
}

func orderProducts(tx *gorm.DB, desc bool) *gorm.DB {
	if desc {
		return tx.Order("created_at desc").Order("id desc")
	}
	return tx.Order("created_at asc").Order("id asc")
}

// ACTIVEで削除されていない持ち主一致の画像だけ先読みする
func preloadActiveImages(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Images", "entity_type = ? AND status = ?",
		model.EntityTypeProducts, model.ImageStatusActive)
}

// offsetページング。管理側向けなので削除済みも含めて数える・返す
func (r *ProductGormRepository) ListOffset(ctx context.Context, f repo.ProductFilter, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{}).Unscoped()
	tx = applyProductFilter(tx, f)

	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	offset := (page - 1) * limit
	tx = orderProducts(tx, f.OrderDesc)
	if err := preloadActiveImages(tx).Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// keysetページング。afterがnilなら先頭から
func (r *ProductGormRepository) ListCursor(ctx context.Context, f repo.ProductFilter, after *repo.Cursor, limit int) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{})
	tx = applyProductFilter(tx, f)

	if after != nil {
		//(created_at, id) をソート方向に合わせて比較する
		if f.OrderDesc {
			tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
				after.CreatedAt, after.CreatedAt, after.ID)
		} else {
			tx = tx.Where("(created_at > ?) OR (created_at = ? AND id > ?)",
				after.CreatedAt, after.CreatedAt, after.ID)
		}
	}

	tx = orderProducts(tx, f.OrderDesc)
	if err := preloadActiveImages(tx).Limit(limit).Find(&products).Error; err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySlug(ctx context.Context, s string) (model.Product, error) {
	var p model.Product
	err := preloadActiveImages(r.db.WithContext(ctx)).Where("slug = ?", s).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return model.Product{}, translatePgError(err)
	}
	return p, nil
}

// 商品の更新。Saveで保存してslug再生成フックを通す
func (r *ProductGormRepository) Save(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(&p).Error; err != nil {
		return model.Product{}, translatePgError(err)
	}
	return p, nil
}

// 商品削除。tombstoneに加えてstatusも明示的にDELETEDへ
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("id = ?", id).
		Update("status", model.StatusDeleted).Error
}

func (r *ProductGormRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}

// ページ内のカテゴリidに対する商品数を1クエリでまとめて取る（N+1回避）
func (r *ProductGormRepository) CountGroupByCategory(ctx context.Context, categoryIDs []string) (map[string]int64, error) {
	type countRow struct {
		CategoryID string
		Count      int64
	}
	var rows []countRow

	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category_id, COUNT(id) AS count").
		Where("category_id IN ?", categoryIDs).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}
