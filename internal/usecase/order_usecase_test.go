package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecase() (*usecase.OrderUsecase, *txReposMock) {
	repos := newTxReposMock()
	return usecase.NewOrderUsecase(&txManagerMock{repos: repos}), repos
}

func trackedOrder() model.Order {
	return model.Order{
		ID:             100,
		UserID:         1,
		TrackingNumber: "3F2A9B1C",
		Status:         model.OrderStatusProcessing,
		PaymentMethod:  model.PaymentMethodBkash,
		TotalPrice:     decimal.RequireFromString("25.00"),
	}
}

// Test: 匿名でも追跡番号を知っていれば照会できる
func TestOrderUsecase_TrackOrder_AnonymousSucceeds(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(trackedOrder(), nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{OrderID: 100, ProductID: 10, ProductNameSnapshot: "widget", Quantity: 2},
	}, nil)

	out, err := uc.TrackOrder(context.Background(), "3F2A9B1C", 0)

	assert.NoError(t, err)
	assert.Equal(t, "3F2A9B1C", out.TrackingNumber)
	assert.Len(t, out.Items, 1)
}

// Test: ログイン済みユーザーは他人の注文を追跡できない
func TestOrderUsecase_TrackOrder_OtherUsersOrderFails(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(trackedOrder(), nil)

	_, err := uc.TrackOrder(context.Background(), "3F2A9B1C", 99)

	assertHTTPError(t, err, http.StatusNotFound, "invalid tracking number")
}

// Test: 失敗理由は全部同じメッセージに畳む（存在しない番号）
func TestOrderUsecase_TrackOrder_UnknownNumberSameMessage(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "NOPE").Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.TrackOrder(context.Background(), "NOPE", 0)

	assertHTTPError(t, err, http.StatusNotFound, "invalid tracking number")
}

// Test: 空文字もDBに行かず同じメッセージ
func TestOrderUsecase_TrackOrder_BlankNumber(t *testing.T) {
	uc, repos := newOrderUsecase()

	_, err := uc.TrackOrder(context.Background(), "  ", 0)

	assertHTTPError(t, err, http.StatusNotFound, "invalid tracking number")
	repos.orders.AssertNotCalled(t, "FindByTrackingNumber", mock.Anything, mock.Anything)
}

// Test: 注文確認画面は本人だけ。他人には404
func TestOrderUsecase_GetOrderComplete_OwnerOnly(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(trackedOrder(), nil)

	_, err := uc.GetOrderComplete(context.Background(), 99, "3F2A9B1C")

	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

// Test: 支払い前の注文確認画面はpaymentなしで返る
func TestOrderUsecase_GetOrderComplete_NoPaymentYet(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(trackedOrder(), nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{}, nil)
	repos.payments.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{}, repo.ErrNotFound)

	out, err := uc.GetOrderComplete(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Nil(t, out.Payment)
	assert.Equal(t, "3F2A9B1C", out.Order.TrackingNumber)
}

// Test: 支払い記録があれば一緒に返る
func TestOrderUsecase_GetOrderComplete_WithPayment(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(trackedOrder(), nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{}, nil)
	repos.payments.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{
		ID: 2, OrderID: 100, PaymentID: "AB12CD34EF56", Status: model.PaymentStatusCompleted,
	}, nil)

	out, err := uc.GetOrderComplete(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	if assert.NotNil(t, out.Payment) {
		assert.Equal(t, "AB12CD34EF56", out.Payment.PaymentID)
	}
}

// Test: 自分の注文一覧
func TestOrderUsecase_ListMyOrders(t *testing.T) {
	uc, repos := newOrderUsecase()

	repos.orders.On("ListByUserID", mock.Anything, int64(1), 1, 50).Return([]model.Order{trackedOrder()}, int64(1), nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{}, nil)

	out, err := uc.ListMyOrders(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
}
