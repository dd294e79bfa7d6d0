package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（23505）
var ErrDuplicate = errors.New("duplicate")

// 外部キー違反（23503）
var ErrForeignKey = errors.New("foreign key violation")

// 一覧検索の共通フィルタ
type ProductFilter struct {
	CategoryID string
	PriceMin   *int64
	PriceMax   *int64
	Status     model.Status // INTERNALのみ
	OrderDesc  bool
}

// keyset paginationの位置。前ページ最後の行の(createdAt, id)
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// offsetページング。削除済みも含める（管理側向け）
	ListOffset(ctx context.Context, f ProductFilter, page, limit int) ([]model.Product, int64, error)
	// keysetページング。afterより後ろの行をlimit件返す
	ListCursor(ctx context.Context, f ProductFilter, after *Cursor, limit int) ([]model.Product, error)

	FindByID(ctx context.Context, id string) (model.Product, error)
	FindBySlug(ctx context.Context, s string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Save(ctx context.Context, p model.Product) (model.Product, error)
	SoftDelete(ctx context.Context, id string) error

	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	CountGroupByCategory(ctx context.Context, categoryIDs []string) (map[string]int64, error)
}
