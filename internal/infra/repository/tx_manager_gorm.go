package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	images     repo.ImageRepository
}

func (r *txReposGorm) Products() repo.ProductRepository    { return r.products }
func (r *txReposGorm) Categories() repo.CategoryRepository { return r.categories }
func (r *txReposGorm) Images() repo.ImageRepository        { return r.images }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			products:   NewProductGormRepository(tx),
			categories: NewCategoryGormRepository(tx),
			images:     NewImageGormRepository(tx),
		}
		return fn(r)
	})
}
