package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func validSaveInputs(n int) []usecase.SaveImageInput {
	inputs := make([]usecase.SaveImageInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, usecase.SaveImageInput{
			PublicID:     "products/tmp/pid",
			URLOriginal:  "https://cdn/orig.jpg",
			URLOptimized: "https://cdn/opt.webp",
			URLMedium:    "https://cdn/med.webp",
		})
	}
	return inputs
}

// =====================
// SaveImages
// =====================

func TestSaveImages_Empty(t *testing.T) {
	uc := usecase.NewImageUsecase(new(ImageRepoMock))

	_, err := uc.SaveImages(context.Background(), nil, model.EntityTypeProducts)
	assertErrContains(t, err, "no images provided")
}

func TestSaveImages_InvalidEntityType(t *testing.T) {
	uc := usecase.NewImageUsecase(new(ImageRepoMock))

	_, err := uc.SaveImages(context.Background(), validSaveInputs(1), model.EntityType("WAREHOUSES"))
	assertErrContains(t, err, "invalid entity type")
}

func TestSaveImages_MissingURL(t *testing.T) {
	uc := usecase.NewImageUsecase(new(ImageRepoMock))

	inputs := validSaveInputs(1)
	inputs[0].URLMedium = ""

	_, err := uc.SaveImages(context.Background(), inputs, model.EntityTypeProducts)
	assertErrContains(t, err, "public id and urls are required")
}

func TestSaveImages_InsertsTemporaryUnowned(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("InsertMany", mock.Anything, mock.MatchedBy(func(images []model.Image) bool {
		for _, img := range images {
			if img.Status != model.ImageStatusTemporary || img.EntityID != nil {
				return false
			}
		}
		return len(images) == 2
	})).Return([]model.Image{{ID: "i1"}, {ID: "i2"}}, nil)

	ids, err := uc.SaveImages(context.Background(), validSaveInputs(2), model.EntityTypeProducts)
	assert.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, ids)

	iRepo.AssertExpectations(t)
}

// 部分insertは成功扱いにしない
func TestSaveImages_PartialInsert(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("InsertMany", mock.Anything, mock.Anything).Return([]model.Image{{ID: "i1"}}, nil)

	_, err := uc.SaveImages(context.Background(), validSaveInputs(2), model.EntityTypeProducts)
	assertErrContains(t, err, "failed to generate image ids")
}

// =====================
// ValidateImages
// =====================

func TestValidateImages_CountMismatch(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("FindByIDsUnscoped", mock.Anything, []string{"i1", "i2"}).Return([]model.Image{
		{ID: "i1", EntityType: model.EntityTypeProducts},
	}, nil)

	_, err := uc.ValidateImages(context.Background(), nil, []string{"i1", "i2"}, model.EntityTypeProducts)
	assertErrContains(t, err, "expected 2 images, but found 1")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestValidateImages_AlreadyDeleted(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("FindByIDsUnscoped", mock.Anything, []string{"i1"}).Return([]model.Image{
		{
			ID:         "i1",
			EntityType: model.EntityTypeProducts,
			DeletedAt:  gorm.DeletedAt{Time: time.Now(), Valid: true},
		},
	}, nil)

	_, err := uc.ValidateImages(context.Background(), nil, []string{"i1"}, model.EntityTypeProducts)
	assertErrContains(t, err, "already deleted")
	assertErrContains(t, err, "i1")
}

func TestValidateImages_TypeMismatch(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("FindByIDsUnscoped", mock.Anything, []string{"i1", "i2"}).Return([]model.Image{
		{ID: "i1", EntityType: model.EntityTypeProducts},
		{ID: "i2", EntityType: model.EntityTypeCategories},
	}, nil)

	_, err := uc.ValidateImages(context.Background(), nil, []string{"i1", "i2"}, model.EntityTypeProducts)
	assertErrContains(t, err, "image type mismatch")
	assertErrContains(t, err, "i2")
}

func TestValidateImages_OK(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("FindByIDsUnscoped", mock.Anything, []string{"i1"}).Return([]model.Image{
		{ID: "i1", EntityType: model.EntityTypeProducts},
	}, nil)

	images, err := uc.ValidateImages(context.Background(), nil, []string{"i1"}, model.EntityTypeProducts)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(images))
}

// =====================
// LinkImages
// =====================

func TestLinkImages_AllUpdated(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("LinkUnowned", mock.Anything, []string{"i1", "i2"}, "p1").Return(int64(2), nil)

	affected, err := uc.LinkImages(context.Background(), nil, []string{"i1", "i2"}, "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestLinkImages_NoneUpdated(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("LinkUnowned", mock.Anything, []string{"i1"}, "p1").Return(int64(0), nil)

	_, err := uc.LinkImages(context.Background(), nil, []string{"i1"}, "p1")
	assertErrContains(t, err, "no images were updated")
}

// 競合idはエラーメッセージ用に引き直す
func TestLinkImages_PartialUpdateNamesConflicts(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	other := "p999"
	iRepo.On("LinkUnowned", mock.Anything, []string{"i1", "i2"}, "p1").Return(int64(1), nil)
	iRepo.On("FindByIDsUnscoped", mock.Anything, []string{"i1", "i2"}).Return([]model.Image{
		{ID: "i1", EntityID: strPtr("p1"), EntityType: model.EntityTypeProducts},
		{ID: "i2", EntityID: &other, EntityType: model.EntityTypeProducts},
	}, nil)

	_, err := uc.LinkImages(context.Background(), nil, []string{"i1", "i2"}, "p1")
	assertErrContains(t, err, "images [i2] are already linked to another entity")
}

// =====================
// DeleteByOwner / DeleteImage
// =====================

func TestDeleteByOwner_ZeroRowsIsFine(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("SoftDeleteByOwner", mock.Anything, "p1", model.EntityTypeProducts).Return(int64(0), nil)

	err := uc.DeleteByOwner(context.Background(), nil, "p1", model.EntityTypeProducts)
	assert.NoError(t, err)
}

func TestDeleteImage_NotFound(t *testing.T) {
	iRepo := new(ImageRepoMock)
	uc := usecase.NewImageUsecase(iRepo)

	iRepo.On("SoftDeleteByID", mock.Anything, "ghost").Return(repo.ErrNotFound)

	err := uc.DeleteImage(context.Background(), "ghost")
	assertErrContains(t, err, "no image found")
}
