package repository

import (
	"context"

	"app/internal/domain/model"
)

type ImageRepository interface {
	InsertMany(ctx context.Context, images []model.Image) ([]model.Image, error)

	// 削除済みの行も返す。検証側で弾くために見える必要がある
	FindByIDsUnscoped(ctx context.Context, ids []string) ([]model.Image, error)

	// entity_idがNULLの行だけを条件付きで一括更新する（check-then-actにしない）。
	// 返り値は実際に更新できた行数
	LinkUnowned(ctx context.Context, ids []string, entityID string) (int64, error)

	// entityIdに紐づく画像のうちkeepにないものをsoft delete
	SoftDeleteStale(ctx context.Context, entityID string, keep []string) (int64, error)

	// entity_id+entity_typeで全削除（エンティティ削除時のカスケード）
	SoftDeleteByOwner(ctx context.Context, entityID string, t model.EntityType) (int64, error)

	SoftDeleteByID(ctx context.Context, id string) error
}
