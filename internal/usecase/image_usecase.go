package usecase

import (
	"context"
	"fmt"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 画像のライフサイクル（TEMPORARY → ACTIVE → soft delete）と
// 「1枚の画像の持ち主は高々1つ」の不変条件を守る
type ImageUsecase struct {
	imageRepo repo.ImageRepository
}

// DI
func NewImageUsecase(imageRepo repo.ImageRepository) *ImageUsecase {
	return &ImageUsecase{imageRepo: imageRepo}
}

// トランザクション共有用。rがnilなら素のrepoを使う
func (u *ImageUsecase) images(r repo.ImageRepository) repo.ImageRepository {
	if r != nil {
		return r
	}
	return u.imageRepo
}

type SaveImageInput struct {
	PublicID     string
	URLOriginal  string
	URLOptimized string
	URLMedium    string
}

// アップロード済み画像をTEMPORARY・未所有で一括登録してidを返す
func (u *ImageUsecase) SaveImages(ctx context.Context, inputs []SaveImageInput, t model.EntityType) ([]string, error) {
	if len(inputs) == 0 {
		return nil, NewValidation("no images provided")
	}
	if !t.Valid() {
		return nil, NewValidation(fmt.Sprintf("invalid entity type: %s", t))
	}

	images := make([]model.Image, 0, len(inputs))
	for _, in := range inputs {
		if in.PublicID == "" || in.URLOriginal == "" || in.URLOptimized == "" || in.URLMedium == "" {
			return nil, NewValidation("image public id and urls are required")
		}
		images = append(images, model.Image{
			PublicID:     in.PublicID,
			URLOriginal:  in.URLOriginal,
			URLOptimized: in.URLOptimized,
			URLMedium:    in.URLMedium,
			EntityType:   t,
			Status:       model.ImageStatusTemporary,
		})
	}

	saved, err := u.imageRepo.InsertMany(ctx, images)
	if err != nil {
		return nil, NewValidation("failed to save images")
	}

	//部分insertは失敗扱い。成功したふりをしない
	if len(saved) != len(inputs) {
		return nil, NewValidation("failed to generate image ids")
	}

	ids := make([]string, 0, len(saved))
	for _, img := range saved {
		ids = append(ids, img.ID)
	}
	return ids, nil
}

// id集合を取得して、件数一致・未削除・type一致を検証して返す
func (u *ImageUsecase) ValidateImages(ctx context.Context, r repo.ImageRepository, ids []string, expected model.EntityType) ([]model.Image, error) {
	images, err := u.images(r).FindByIDsUnscoped(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(images) != len(ids) {
		return nil, NewNotFound(fmt.Sprintf("expected %d images, but found %d", len(ids), len(images)))
	}

	var deleted []string
	for _, img := range images {
		if img.DeletedAt.Valid {
			deleted = append(deleted, img.ID)
		}
	}
	if len(deleted) > 0 {
		return nil, NewValidation(fmt.Sprintf("some images are already deleted. ids: %s", strings.Join(deleted, ", ")))
	}

	var mismatched []string
	for _, img := range images {
		if img.EntityType != expected {
			mismatched = append(mismatched, img.ID)
		}
	}
	if len(mismatched) > 0 {
		return nil, NewValidation(fmt.Sprintf("image type mismatch. expected %q. invalid ids: %s", expected, strings.Join(mismatched, ", ")))
	}

	return images, nil
}

// 未所有の画像だけをACTIVE+entityIdに一括更新する。
// 更新行数がids全件に届かなければ誰かに先に紐づけられている
func (u *ImageUsecase) LinkImages(ctx context.Context, r repo.ImageRepository, ids []string, entityID string) (int64, error) {
	if len(ids) == 0 {
		return 0, NewValidation("no image ids provided")
	}

	affected, err := u.images(r).LinkUnowned(ctx, ids, entityID)
	if err != nil {
		return 0, NewValidation("failed to link images")
	}

	if affected == 0 {
		return 0, NewValidation("no images were updated. all may already be linked to another entity")
	}

	if affected != int64(len(ids)) {
		//メッセージ用に競合idを引き直す。正しさは上の条件付きUPDATEが担保している
		conflicting := u.findConflicting(ctx, r, ids, entityID)
		return 0, NewValidation(fmt.Sprintf("images [%s] are already linked to another entity and cannot be overridden", strings.Join(conflicting, ", ")))
	}

	return affected, nil
}

func (u *ImageUsecase) findConflicting(ctx context.Context, r repo.ImageRepository, ids []string, entityID string) []string {
	images, err := u.images(r).FindByIDsUnscoped(ctx, ids)
	if err != nil {
		return ids
	}
	var conflicting []string
	for _, img := range images {
		owner := img.Owner()
		if owner.Kind != model.OwnerUnattached && owner.ID != entityID {
			conflicting = append(conflicting, img.ID)
		}
	}
	return conflicting
}

// entityIdの画像のうちkeepにないものを外す（更新時の整理）
func (u *ImageUsecase) UnlinkStale(ctx context.Context, r repo.ImageRepository, entityID string, keep []string) error {
	if _, err := u.images(r).SoftDeleteStale(ctx, entityID, keep); err != nil {
		return err
	}
	return nil
}

// エンティティ削除時のカスケード。0件でもエラーにしない
func (u *ImageUsecase) DeleteByOwner(ctx context.Context, r repo.ImageRepository, ownerID string, t model.EntityType) error {
	if !t.Valid() {
		return NewValidation(fmt.Sprintf("invalid entity type: %s", t))
	}
	if _, err := u.images(r).SoftDeleteByOwner(ctx, ownerID, t); err != nil {
		return err
	}
	return nil
}

// 画像idを指定して1枚外す
func (u *ImageUsecase) DeleteImage(ctx context.Context, id string) error {
	if id == "" {
		return NewValidation("image id is required")
	}
	err := u.imageRepo.SoftDeleteByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewNotFound(fmt.Sprintf("no image found with id %s", id))
	}
	return err
}
