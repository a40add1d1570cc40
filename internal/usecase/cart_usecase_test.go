package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase() (*usecase.CartUsecase, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	return usecase.NewCartUsecase(cartRepo, itemRepo, productRepo), cartRepo, itemRepo, productRepo
}

// Test: カートが無いユーザーのGETは空レスポンス（作成しない）
func TestCartUsecase_GetCart_NoCartReturnsEmpty(t *testing.T) {
	uc, cartRepo, _, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	out, err := uc.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.TotalPrice.IsZero())
	cartRepo.AssertNotCalled(t, "GetOrCreateByUserID", mock.Anything, mock.Anything)
}

// Test: 非公開商品は追加できない
func TestCartUsecase_AddToCart_UnavailableProduct(t *testing.T) {
	uc, _, itemRepo, productRepo := newCartUsecase()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:          10,
		Name:        "hidden",
		Stock:       5,
		IsAvailable: false,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 1})

	assertHTTPError(t, err, http.StatusBadRequest, "product not available")
	itemRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Test: 在庫0も追加できない
func TestCartUsecase_AddToCart_ZeroStock(t *testing.T) {
	uc, _, _, productRepo := newCartUsecase()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:          10,
		Stock:       0,
		IsAvailable: true,
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 1})

	assertHTTPError(t, err, http.StatusBadRequest, "product not available")
}

// Test: 在庫を超える数量は在庫数に丸めて「上書き」する（加算ではない）
func TestCartUsecase_AddToCart_ClampsAndOverwrites(t *testing.T) {
	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:          10,
		Name:        "widget",
		Price:       decimal.RequireFromString("5.00"),
		Stock:       3,
		IsAvailable: true,
	}, nil)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)

	//上書き：数量99は在庫3に丸まる
	itemRepo.On("SetQuantity", mock.Anything, int64(7), int64(10), int64(3)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: 10, Quantity: 3},
	}, nil)

	out, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: 99})

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
	assert.Equal(t, "15", out.TotalPrice.String())
	itemRepo.AssertExpectations(t)
}

// Test: 数量0以下は1に丸める
func TestCartUsecase_AddToCart_MinimumOne(t *testing.T) {
	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:          10,
		Price:       decimal.RequireFromString("2.50"),
		Stock:       9,
		IsAvailable: true,
	}, nil)
	cartRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("SetQuantity", mock.Anything, int64(7), int64(10), int64(1)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: 10, Quantity: 1},
	}, nil)

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 10, Quantity: -5})

	assert.NoError(t, err)
	itemRepo.AssertExpectations(t)
}

// Test: 無い明細の数量変更は黙って現状を返す
func TestCartUsecase_UpdateCartItem_MissingLineIsNoop(t *testing.T) {
	uc, cartRepo, itemRepo, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{}, repo.ErrNotFound)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	out, err := uc.UpdateCartItem(context.Background(), 1, 10, usecase.UpdateCartItemInput{Quantity: 2})

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	itemRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Test: 数量0は明細削除
func TestCartUsecase_UpdateCartItem_ZeroDeletesLine(t *testing.T) {
	uc, cartRepo, itemRepo, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{
		CartID: 7, ProductID: 10, Quantity: 2,
	}, nil)
	itemRepo.On("DeleteByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	out, err := uc.UpdateCartItem(context.Background(), 1, 10, usecase.UpdateCartItemInput{Quantity: 0})

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	itemRepo.AssertExpectations(t)
}

// Test: 売り切れた商品の数量変更は明細削除になる（エラーにしない）
func TestCartUsecase_UpdateCartItem_SoldOutDeletesLine(t *testing.T) {
	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("FindByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(model.CartItem{
		CartID: 7, ProductID: 10, Quantity: 2,
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "widget", Stock: 0, IsAvailable: true,
	}, nil)
	itemRepo.On("DeleteByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	out, err := uc.UpdateCartItem(context.Background(), 1, 10, usecase.UpdateCartItemInput{Quantity: 2})

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	itemRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	itemRepo.AssertExpectations(t)
}

// Test: 削除は2回呼んでもエラーにならない
func TestCartUsecase_RemoveFromCart_Idempotent(t *testing.T) {
	uc, cartRepo, itemRepo, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("DeleteByCartAndProduct", mock.Anything, int64(7), int64(10)).Return(repo.ErrNotFound)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	out, err := uc.RemoveFromCart(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

// Test: カート自体が無いユーザーの削除も黙って空を返す
func TestCartUsecase_RemoveFromCart_NoCartIsNoop(t *testing.T) {
	uc, cartRepo, _, _ := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	out, err := uc.RemoveFromCart(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

// Test: 合計は現在価格×数量で計算する
func TestCartUsecase_GetCart_TotalsUseLivePrices(t *testing.T) {
	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: 10, Quantity: 2},
		{CartID: 7, ProductID: 11, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "a", Price: decimal.RequireFromString("10.00"), Stock: 5, IsAvailable: true,
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(11)).Return(model.Product{
		ID: 11, Name: "b", Price: decimal.RequireFromString("5.00"), Stock: 5, IsAvailable: true,
	}, nil)

	out, err := uc.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "25", out.TotalPrice.String())
	assert.Equal(t, int64(3), out.TotalItems)
}

// Test: 消えた商品は合計から外すが、DB障害は500で返す（明細を黙って落とさない）
func TestCartUsecase_GetCart_ProductLookupFailure(t *testing.T) {
	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: 10, Quantity: 2},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{}, errors.New("connection reset"))

	_, err := uc.GetCart(context.Background(), 1)

	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
}

// Test: 削除済み商品だけが外れ、残りは集計される
func TestCartUsecase_GetCart_SkipsRemovedProduct(t *testing.T) {
	uc, cartRepo, itemRepo, productRepo := newCartUsecase()

	cartRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	itemRepo.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: 10, Quantity: 2},
		{CartID: 7, ProductID: 11, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{}, repo.ErrNotFound)
	productRepo.On("FindByID", mock.Anything, int64(11)).Return(model.Product{
		ID: 11, Name: "b", Price: decimal.RequireFromString("5.00"), Stock: 5, IsAvailable: true,
	}, nil)

	out, err := uc.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, "5", out.TotalPrice.String())
}
