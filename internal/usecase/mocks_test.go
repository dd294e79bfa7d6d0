package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), want)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListOffset(ctx context.Context, f repo.ProductFilter, page, limit int) ([]model.Product, int64, error) {
	args := m.Called(ctx, f, page, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListCursor(ctx context.Context, f repo.ProductFilter, after *repo.Cursor, limit int) ([]model.Product, error) {
	args := m.Called(ctx, f, after, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindBySlug(ctx context.Context, s string) (model.Product, error) {
	args := m.Called(ctx, s)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Save(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	saved, _ := args.Get(0).(model.Product)
	return saved, args.Error(1)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) CountGroupByCategory(ctx context.Context, categoryIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, categoryIDs)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) List(ctx context.Context, page, limit int) ([]model.Category, int64, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id string) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindByIDUnscoped(ctx context.Context, id string) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Save(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	saved, _ := args.Get(0).(model.Category)
	return saved, args.Error(1)
}

func (m *CategoryRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ImageRepoMock struct{ mock.Mock }

func (m *ImageRepoMock) InsertMany(ctx context.Context, images []model.Image) ([]model.Image, error) {
	args := m.Called(ctx, images)
	saved, _ := args.Get(0).([]model.Image)
	return saved, args.Error(1)
}

func (m *ImageRepoMock) FindByIDsUnscoped(ctx context.Context, ids []string) ([]model.Image, error) {
	args := m.Called(ctx, ids)
	images, _ := args.Get(0).([]model.Image)
	return images, args.Error(1)
}

func (m *ImageRepoMock) LinkUnowned(ctx context.Context, ids []string, entityID string) (int64, error) {
	args := m.Called(ctx, ids, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ImageRepoMock) SoftDeleteStale(ctx context.Context, entityID string, keep []string) (int64, error) {
	args := m.Called(ctx, entityID, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ImageRepoMock) SoftDeleteByOwner(ctx context.Context, entityID string, t model.EntityType) (int64, error) {
	args := m.Called(ctx, entityID, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ImageRepoMock) SoftDeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByRefreshTokenHash(ctx context.Context, hash string) (model.User, error) {
	args := m.Called(ctx, hash)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateRefreshToken(ctx context.Context, userID string, hash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, hash, expiresAt)
	return args.Error(0)
}

func (m *UserRepoMock) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// Txのフェイク。fnをそのまま実行してエラーを返す
// =====================

type fakeTxRepos struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	images     repo.ImageRepository
}

func (r *fakeTxRepos) Products() repo.ProductRepository    { return r.products }
func (r *fakeTxRepos) Categories() repo.CategoryRepository { return r.categories }
func (r *fakeTxRepos) Images() repo.ImageRepository        { return r.images }

type fakeTxManager struct {
	repos *fakeTxRepos
}

func (tm *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(tm.repos)
}
