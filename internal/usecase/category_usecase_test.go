package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateCategory_Duplicate(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("Create", mock.Anything, mock.Anything).Return(model.Category{}, repo.ErrDuplicate)

	_, err := uc.CreateCategory(context.Background(), "Drinks")
	assertErrContains(t, err, "category already exists")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestCreateCategory_TrimsName(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.Name == "Drinks"
	})).Return(model.Category{ID: "c1", Name: "Drinks", Slug: "drinks", Status: model.StatusActive}, nil)

	out, err := uc.CreateCategory(context.Background(), "  Drinks  ")
	assert.NoError(t, err)
	assert.Equal(t, "drinks", out.Slug)

	cRepo.AssertExpectations(t)
}

func TestCreateCategory_BlankName(t *testing.T) {
	uc := usecase.NewCategoryUsecase(new(CategoryRepoMock), new(ProductRepoMock))

	_, err := uc.CreateCategory(context.Background(), "   ")
	assertErrContains(t, err, "name required")
}

// 商品数はページ分のidに対する1クエリで取る
func TestListCategories_AttachesProductCounts(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, pRepo)

	cRepo.On("List", mock.Anything, 1, 10).Return([]model.Category{
		{ID: "c1", Name: "Drinks", Slug: "drinks"},
		{ID: "c2", Name: "Snacks", Slug: "snacks"},
	}, int64(2), nil)
	pRepo.On("CountGroupByCategory", mock.Anything, []string{"c1", "c2"}).Return(map[string]int64{"c1": 7}, nil)

	out, err := uc.ListCategories(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Data[0].Metadata.TotalProducts)
	assert.Equal(t, int64(0), out.Data[1].Metadata.TotalProducts) //欠けたキーは0
	assert.Equal(t, 1, out.Metadata.TotalPages)
	assert.False(t, out.Metadata.HasNextPage)

	pRepo.AssertExpectations(t)
}

// 0件のときはカウントのクエリを撃たない
func TestListCategories_EmptyShortCircuits(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, pRepo)

	cRepo.On("List", mock.Anything, 1, 10).Return([]model.Category{}, int64(0), nil)

	out, err := uc.ListCategories(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Empty(t, out.Data)
	assert.Equal(t, 0, out.Metadata.TotalPages)

	pRepo.AssertNotCalled(t, "CountGroupByCategory", mock.Anything, mock.Anything)
}

func TestListCategories_InvalidPaging(t *testing.T) {
	uc := usecase.NewCategoryUsecase(new(CategoryRepoMock), new(ProductRepoMock))

	_, err := uc.ListCategories(context.Background(), 0, 10)
	assertErrContains(t, err, "invalid page")

	_, err = uc.ListCategories(context.Background(), 1, 101)
	assertErrContains(t, err, "invalid limit")
}

// 削除済みカテゴリも管理画面からは引ける
func TestGetCategoryByID_UsesUnscopedLookup(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, pRepo)

	cRepo.On("FindByIDUnscoped", mock.Anything, "c1").Return(model.Category{
		ID: "c1", Name: "Drinks", Slug: "drinks", Status: model.StatusDeleted,
	}, nil)
	pRepo.On("CountByCategory", mock.Anything, "c1").Return(int64(3), nil)

	out, err := uc.GetCategoryByID(context.Background(), "c1")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDeleted, out.Status)
	assert.Equal(t, int64(3), out.Metadata.TotalProducts)

	cRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetCategoryByID_NotFound(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByIDUnscoped", mock.Anything, "ghost").Return(model.Category{}, repo.ErrNotFound)

	_, err := uc.GetCategoryByID(context.Background(), "ghost")
	assertErrContains(t, err, "no category found")
}

func TestUpdateCategory_NameOmittedSkipsSave(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByID", mock.Anything, "c1").Return(model.Category{ID: "c1", Name: "Drinks", Slug: "drinks"}, nil)

	out, err := uc.UpdateCategory(context.Background(), "c1", usecase.UpdateCategoryInput{})
	assert.NoError(t, err)
	assert.Equal(t, "Drinks", out.Name)

	cRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateCategory_RenameSaves(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByID", mock.Anything, "c1").Return(model.Category{ID: "c1", Name: "Drinks", Slug: "drinks"}, nil)
	cRepo.On("Save", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.Name == "Beverages"
	})).Return(model.Category{ID: "c1", Name: "Beverages", Slug: "beverages"}, nil)

	out, err := uc.UpdateCategory(context.Background(), "c1", usecase.UpdateCategoryInput{Name: strPtr("Beverages")})
	assert.NoError(t, err)
	assert.Equal(t, "beverages", out.Slug)

	cRepo.AssertExpectations(t)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	cRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("SoftDelete", mock.Anything, "ghost").Return(repo.ErrNotFound)

	err := uc.DeleteCategory(context.Background(), "ghost")
	assertErrContains(t, err, "no category found")
}
