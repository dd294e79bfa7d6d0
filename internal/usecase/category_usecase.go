package usecase

import (
	"context"
	"fmt"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository, productRepo repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

type CategoryMetadata struct {
	TotalProducts int64 `json:"totalProducts"`
}

type CategoryResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Slug     string           `json:"slug"`
	Status   model.Status     `json:"status,omitempty"`
	Metadata CategoryMetadata `json:"metadata"`
}

type CategoryListMetadata struct {
	TotalCategories int64 `json:"totalCategories"`
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

type CategoryListOutput struct {
	Data     []CategoryResponse   `json:"data"`
	Metadata CategoryListMetadata `json:"metadata"`
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, name string) (CategoryResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryResponse{}, NewValidation("name required")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{Name: name})
	if err == repo.ErrDuplicate {
		return CategoryResponse{}, NewConflict("category already exists")
	}
	if err != nil {
		return CategoryResponse{}, err
	}

	return CategoryResponse{
		ID:     created.ID,
		Name:   created.Name,
		Slug:   created.Slug,
		Status: created.Status,
	}, nil
}

// 一覧 + カテゴリごとの商品数。商品数はページ分のidに対する1クエリで取る
func (u *CategoryUsecase) ListCategories(ctx context.Context, page, limit int) (CategoryListOutput, error) {
	if page < 1 {
		return CategoryListOutput{}, NewValidation("invalid page")
	}
	if limit < 1 || limit > 100 {
		return CategoryListOutput{}, NewValidation("invalid limit")
	}

	categories, total, err := u.categoryRepo.List(ctx, page, limit)
	if err != nil {
		return CategoryListOutput{}, err
	}

	totalPages := ceilDiv(total, int64(limit))
	meta := CategoryListMetadata{
		TotalCategories: total,
		CurrentPage:     page,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}

	if total == 0 {
		return CategoryListOutput{Data: []CategoryResponse{}, Metadata: meta}, nil
	}

	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}

	counts, err := u.productRepo.CountGroupByCategory(ctx, ids)
	if err != nil {
		return CategoryListOutput{}, err
	}

	data := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		data = append(data, CategoryResponse{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Status:   c.Status,
			Metadata: CategoryMetadata{TotalProducts: counts[c.ID]},
		})
	}

	return CategoryListOutput{Data: data, Metadata: meta}, nil
}

// 削除済みも見える（管理画面の要件）
func (u *CategoryUsecase) GetCategoryByID(ctx context.Context, id string) (CategoryResponse, error) {
	if id == "" {
		return CategoryResponse{}, NewValidation("category id is required")
	}

	c, err := u.categoryRepo.FindByIDUnscoped(ctx, id)
	if err == repo.ErrNotFound {
		return CategoryResponse{}, NewNotFound(fmt.Sprintf("no category found with id %s", id))
	}
	if err != nil {
		return CategoryResponse{}, err
	}

	total, err := u.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return CategoryResponse{}, err
	}

	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		Status:   c.Status,
		Metadata: CategoryMetadata{TotalProducts: total},
	}, nil
}

type UpdateCategoryInput struct {
	Name *string
}

// nameがあるときだけ保存し直す（slugはフックで再生成される）
func (u *CategoryUsecase) UpdateCategory(ctx context.Context, id string, in UpdateCategoryInput) (CategoryResponse, error) {
	if id == "" {
		return CategoryResponse{}, NewValidation("category id is required")
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return CategoryResponse{}, NewNotFound(fmt.Sprintf("no category found with id %s", id))
	}
	if err != nil {
		return CategoryResponse{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return CategoryResponse{}, NewValidation("name must not be empty")
		}
		c.Name = name

		c, err = u.categoryRepo.Save(ctx, c)
		if err == repo.ErrDuplicate {
			return CategoryResponse{}, NewConflict("category already exists")
		}
		if err != nil {
			return CategoryResponse{}, err
		}
	}

	return CategoryResponse{
		ID:     c.ID,
		Name:   c.Name,
		Slug:   c.Slug,
		Status: c.Status,
	}, nil
}

func (u *CategoryUsecase) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return NewValidation("category id is required")
	}

	err := u.categoryRepo.SoftDelete(ctx, id)
	if err == repo.ErrNotFound {
		return NewNotFound(fmt.Sprintf("no category found with id %s", id))
	}
	return err
}

func ceilDiv(total, limit int64) int {
	if limit <= 0 {
		return 0
	}
	return int((total + limit - 1) / limit)
}
