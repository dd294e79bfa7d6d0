package usecase

import (
	"context"
	"fmt"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// リクエストの出どころ。ページング方式がここで決まる
type SourceWeb string

const (
	SourceInternal SourceWeb = "INTERNAL" // 管理側。offset + 総件数
	SourceUser     SourceWeb = "USER"     // 公開側。keysetカーソル
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	imageUC      *ImageUsecase
	txManager    repo.TransactionManager
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	imageUC *ImageUsecase,
	txManager repo.TransactionManager,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageUC:      imageUC,
		txManager:    txManager,
	}
}

type GetProductsInput struct {
	Source     SourceWeb
	CategoryID string
	PriceMin   *int64
	PriceMax   *int64
	Status     model.Status // INTERNALのみ有効
	OrderBy    string       // "ASC" / "DESC"（既定はDESC）

	// INTERNAL
	Page  int
	Limit int

	// USER
	Cursor string
}

type ProductImageResponse struct {
	URLThumbnail string `json:"urlThumbnail"`
	URLWebp      string `json:"urlWebp"`
}

type ProductResponse struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Price  int64                  `json:"price"`
	Slug   string                 `json:"slug"`
	Images []ProductImageResponse `json:"images"`
}

// 両モード共通の返却形。モード固有のフィールドはポインタで省略する
type GetProductsOutput struct {
	Products []ProductResponse `json:"products"`

	// INTERNAL（offset）のみ
	TotalProducts   *int64 `json:"totalProducts,omitempty"`
	TotalPages      *int   `json:"totalPages,omitempty"`
	CurrentPage     *int   `json:"currentPage,omitempty"`
	HasPreviousPage *bool  `json:"hasPreviousPage,omitempty"`

	HasNextPage bool `json:"hasNextPage"`

	// USER（cursor）のみ
	NextCursor *string `json:"nextCursor,omitempty"`
}

// エンドポイントごとに形が揺れないよう、商品→レスポンスの変換はここだけ
func mapProductResponse(items []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, item := range items {
		images := make([]ProductImageResponse, 0, len(item.Images))
		for _, img := range item.Images {
			images = append(images, ProductImageResponse{
				URLThumbnail: img.URLOriginal,
				URLWebp:      img.URLOptimized,
			})
		}
		out = append(out, ProductResponse{
			ID:     item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Slug:   item.Slug,
			Images: images,
		})
	}
	return out
}

func (u *ProductUsecase) GetProducts(ctx context.Context, in GetProductsInput) (GetProductsOutput, error) {
	if in.Limit == 0 {
		in.Limit = 10
	}
	if in.Limit < 1 || in.Limit > 100 {
		return GetProductsOutput{}, NewValidation("invalid limit")
	}
	if in.PriceMin != nil && *in.PriceMin < 0 {
		return GetProductsOutput{}, NewValidation("min price must be >= 0")
	}
	if in.PriceMax != nil && *in.PriceMax < 0 {
		return GetProductsOutput{}, NewValidation("max price must be >= 0")
	}
	if in.PriceMin != nil && in.PriceMax != nil && *in.PriceMin > *in.PriceMax {
		return GetProductsOutput{}, NewValidation("min price must be <= max price")
	}

	orderDesc := true
	switch strings.ToUpper(in.OrderBy) {
	case "", "DESC":
	case "ASC":
		orderDesc = false
	default:
		return GetProductsOutput{}, NewValidation("invalid order")
	}

	f := repo.ProductFilter{
		CategoryID: in.CategoryID,
		PriceMin:   in.PriceMin,
		PriceMax:   in.PriceMax,
		OrderDesc:  orderDesc,
	}

	switch in.Source {
	case SourceInternal:
		return u.listOffset(ctx, f, in)
	case SourceUser:
		return u.listCursor(ctx, f, in)
	default:
		return GetProductsOutput{}, NewValidation("invalid web source")
	}
}

// 管理側: offset + 総件数。statusフィルタが使えて削除済みも見える
func (u *ProductUsecase) listOffset(ctx context.Context, f repo.ProductFilter, in GetProductsInput) (GetProductsOutput, error) {
	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return GetProductsOutput{}, NewValidation("invalid page")
	}

	if in.Status != "" {
		switch in.Status {
		case model.StatusActive, model.StatusDisabled, model.StatusDeleted:
			f.Status = in.Status
		default:
			return GetProductsOutput{}, NewValidation("invalid status")
		}
	}

	items, total, err := u.productRepo.ListOffset(ctx, f, page, in.Limit)
	if err != nil {
		return GetProductsOutput{}, err
	}

	totalPages := ceilDiv(total, int64(in.Limit))
	hasNext := page < totalPages
	hasPrev := page > 1

	return GetProductsOutput{
		Products:        mapProductResponse(items),
		TotalProducts:   &total,
		TotalPages:      &totalPages,
		CurrentPage:     &page,
		HasNextPage:     hasNext,
		HasPreviousPage: &hasPrev,
	}, nil
}

// 公開側: keysetカーソル。総件数は数えない
func (u *ProductUsecase) listCursor(ctx context.Context, f repo.ProductFilter, in GetProductsInput) (GetProductsOutput, error) {
	var after *repo.Cursor
	if in.Cursor != "" {
		c, err := DecodeCursor(in.Cursor)
		if err != nil {
			return GetProductsOutput{}, NewValidation("invalid cursor")
		}
		after = &c
	}

	//limit+1件取って、あふれた1件で次ページ有無を判定する
	items, err := u.productRepo.ListCursor(ctx, f, after, in.Limit+1)
	if err != nil {
		return GetProductsOutput{}, err
	}

	hasNext := len(items) > in.Limit
	if hasNext {
		items = items[:in.Limit]
	}

	var nextCursor *string
	if hasNext {
		last := items[len(items)-1]
		c := EncodeCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	return GetProductsOutput{
		Products:    mapProductResponse(items),
		HasNextPage: hasNext,
		NextCursor:  nextCursor,
	}, nil
}

func (u *ProductUsecase) GetProductBySlug(ctx context.Context, s string) (ProductResponse, error) {
	if s == "" {
		return ProductResponse{}, NewValidation("slug is required")
	}

	p, err := u.productRepo.FindBySlug(ctx, s)
	if err == repo.ErrNotFound {
		return ProductResponse{}, NewNotFound(fmt.Sprintf("no product found with slug %s", s))
	}
	if err != nil {
		return ProductResponse{}, err
	}

	return mapProductResponse([]model.Product{p})[0], nil
}

type CreateProductInput struct {
	Name       string
	Price      int64
	CategoryID string
	ImageIDs   []string
}

// 作成と画像リンクは1つのトランザクション。リンクに失敗したら商品ごと巻き戻す
func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProductResponse{}, NewValidation("name required")
	}
	if in.Price < 0 {
		return ProductResponse{}, NewValidation("price must be >= 0")
	}
	if in.CategoryID == "" {
		return ProductResponse{}, NewValidation("category id required")
	}
	if len(in.ImageIDs) == 0 {
		return ProductResponse{}, NewValidation("no images provided")
	}

	var out ProductResponse
	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		cat, err := r.Categories().FindByIDUnscoped(ctx, in.CategoryID)
		if err == repo.ErrNotFound {
			return NewNotFound(fmt.Sprintf("no category found with id %s", in.CategoryID))
		}
		if err != nil {
			return err
		}
		if cat.Status != model.StatusActive {
			return NewValidation(fmt.Sprintf("category %q is %s and cannot accept products", cat.Name, cat.Status))
		}

		if _, err := u.imageUC.ValidateImages(ctx, r.Images(), in.ImageIDs, model.EntityTypeProducts); err != nil {
			return err
		}

		created, err := r.Products().Create(ctx, model.Product{
			Name:       name,
			Price:      in.Price,
			CategoryID: in.CategoryID,
			Status:     model.StatusActive,
		})
		if err == repo.ErrForeignKey {
			return NewConflict("category does not exist")
		}
		if err == repo.ErrDuplicate {
			return NewConflict("product with the same slug already exists")
		}
		if err != nil {
			return err
		}

		if _, err := u.imageUC.LinkImages(ctx, r.Images(), in.ImageIDs, created.ID); err != nil {
			return err
		}

		out = mapProductResponse([]model.Product{created})[0]
		return nil
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return out, nil
}

type UpdateProductInput struct {
	Name       *string
	Price      *int64
	CategoryID *string
	ImageIDs   []string
}

// 1トランザクションで、スカラー更新 → 画像の突き合わせ。
// 提出されなかった画像は外し、未所有の画像は取り込む
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID string, in UpdateProductInput) (ProductResponse, error) {
	if productID == "" {
		return ProductResponse{}, NewValidation("product id is required")
	}
	if in.Name == nil && in.Price == nil && in.CategoryID == nil && len(in.ImageIDs) == 0 {
		return ProductResponse{}, NewValidation("nothing to update")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ProductResponse{}, NewValidation("name must not be empty")
	}
	if in.Price != nil && *in.Price < 0 {
		return ProductResponse{}, NewValidation("price must be >= 0")
	}

	var out ProductResponse
	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewNotFound(fmt.Sprintf("no product found with id %s", productID))
		}
		if err != nil {
			return err
		}

		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.CategoryID != nil {
			p.CategoryID = *in.CategoryID
		}

		saved, err := r.Products().Save(ctx, p)
		if err == repo.ErrForeignKey {
			return NewConflict("category does not exist")
		}
		if err == repo.ErrDuplicate {
			return NewConflict("product with the same slug already exists")
		}
		if err != nil {
			return err
		}

		if len(in.ImageIDs) > 0 {
			if err := u.reconcileImages(ctx, r.Images(), saved.ID, in.ImageIDs); err != nil {
				return err
			}
		}

		out = mapProductResponse([]model.Product{saved})[0]
		return nil
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return out, nil
}

// 提出されたid集合を「既に自分のもの」「未所有」「他人のもの」に分けて、
// 未所有はリンクし、提出されなかった既存リンクは外す
func (u *ProductUsecase) reconcileImages(ctx context.Context, images repo.ImageRepository, productID string, imageIDs []string) error {
	fetched, err := u.imageUC.ValidateImages(ctx, images, imageIDs, model.EntityTypeProducts)
	if err != nil {
		return err
	}

	var toLink, conflicting []string
	for _, img := range fetched {
		owner := img.Owner()
		switch owner.Kind {
		case model.OwnerUnattached:
			toLink = append(toLink, img.ID)
		case model.OwnerProduct:
			if owner.ID != productID {
				conflicting = append(conflicting, img.ID)
			}
			//自分のものはそのまま
		case model.OwnerCategory:
			conflicting = append(conflicting, img.ID)
		}
	}

	if len(conflicting) > 0 {
		return NewValidation(fmt.Sprintf("images [%s] are already linked to another entity and cannot be overridden", strings.Join(conflicting, ", ")))
	}

	if len(toLink) > 0 {
		if _, err := u.imageUC.LinkImages(ctx, images, toLink, productID); err != nil {
			return err
		}
	}

	//提出されなかった画像は外す
	return u.imageUC.UnlinkStale(ctx, images, productID, imageIDs)
}

// 商品と所有画像を同一トランザクションでsoft delete
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return NewValidation("product id is required")
	}

	return u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewNotFound(fmt.Sprintf("no product found with id %s", productID))
			}
			return err
		}

		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewNotFound(fmt.Sprintf("no product found with id %s", productID))
			}
			return err
		}

		return u.imageUC.DeleteByOwner(ctx, r.Images(), productID, model.EntityTypeProducts)
	})
}
