package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// Test: slug重複は409
func TestCategoryUsecase_CreateCategory_SlugConflict(t *testing.T) {
	catRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(catRepo)

	catRepo.On("FindBySlug", mock.Anything, "books").Return(model.Category{ID: 3, Slug: "books"}, nil)

	_, err := uc.CreateCategory(context.Background(), 5, usecase.CategoryInput{Name: "Books"})

	assertHTTPError(t, err, http.StatusConflict, "slug already exists")
	catRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: 新規カテゴリはデフォルトで有効
func TestCategoryUsecase_CreateCategory_DefaultsActive(t *testing.T) {
	catRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(catRepo)

	catRepo.On("FindBySlug", mock.Anything, "books").Return(model.Category{}, repo.ErrNotFound)
	catRepo.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.Slug == "books" && c.IsActive
	})).Return(model.Category{ID: 1, Name: "Books", Slug: "books", IsActive: true}, nil)

	out, err := uc.CreateCategory(context.Background(), 5, usecase.CategoryInput{Name: "Books"})

	assert.NoError(t, err)
	assert.True(t, out.IsActive)
	catRepo.AssertExpectations(t)
}

// Test: is_activeを送らない更新は有効フラグを変えない
func TestCategoryUsecase_UpdateCategory_KeepsActiveFlag(t *testing.T) {
	catRepo := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(catRepo)

	catRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Category{
		ID: 3, Name: "Books", Slug: "books", IsActive: false,
	}, nil)
	catRepo.On("FindBySlug", mock.Anything, "books").Return(model.Category{ID: 3, Slug: "books"}, nil)
	catRepo.On("Update", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.ID == 3 && !c.IsActive
	})).Return(nil)

	err := uc.UpdateCategory(context.Background(), 5, 3, usecase.CategoryInput{Name: "Books"})

	assert.NoError(t, err)
	catRepo.AssertExpectations(t)
}
