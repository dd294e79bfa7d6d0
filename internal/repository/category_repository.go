package repository

import (
	"context"

	"app/internal/domain/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, c model.Category) (model.Category, error)
	List(ctx context.Context, page, limit int) ([]model.Category, int64, error)

	FindByID(ctx context.Context, id string) (model.Category, error)
	// 削除済みも見える取得（管理画面の要件）
	FindByIDUnscoped(ctx context.Context, id string) (model.Category, error)

	Save(ctx context.Context, c model.Category) (model.Category, error)
	SoftDelete(ctx context.Context, id string) error
}
