package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

type CategoryInput struct {
	Name string
	Slug string
	// nilなら作成時はtrue、更新時は現状維持
	IsActive *bool
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cs, nil
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, adminUserID int64, in CategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateCategoryInput(&in); err != nil {
		return model.Category{}, err
	}

	//slug重複は事前に弾く（uniqueIndexもあるが、分かるエラーを返すため）
	if _, err := u.categoryRepo.FindBySlug(ctx, in.Slug); err == nil {
		return model.Category{}, NewHTTPError(http.StatusConflict, "slug already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := time.Now()
	created, err := u.categoryRepo.Create(ctx, model.Category{
		Name:      in.Name,
		Slug:      in.Slug,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, adminUserID int64, categoryID int64, in CategoryInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateCategoryInput(&in); err != nil {
		return err
	}

	current, err := u.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//別カテゴリが同じslugを使っていないか
	if existing, err := u.categoryRepo.FindBySlug(ctx, in.Slug); err == nil && existing.ID != categoryID {
		return NewHTTPError(http.StatusConflict, "slug already exists")
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	active := current.IsActive
	if in.IsActive != nil {
		active = *in.IsActive
	}

	err = u.categoryRepo.Update(ctx, model.Category{
		ID:       categoryID,
		Name:     in.Name,
		Slug:     in.Slug,
		IsActive: active,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateCategoryInput(in *CategoryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}

	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	if in.Slug == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid slug")
	}
	return nil
}
