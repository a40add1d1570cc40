package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPaymentUsecase() (*usecase.PaymentUsecase, *txReposMock) {
	repos := newTxReposMock()
	tx := &txManagerMock{repos: repos}
	uc := usecase.NewPaymentUsecase(
		tx,
		&fixedPaymentIDGenerator{v: "AB12CD34EF56"},
		&fixedClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
	)
	return uc, repos
}

func codOrder() model.Order {
	return model.Order{
		ID:             100,
		UserID:         1,
		TrackingNumber: "3F2A9B1C",
		Status:         model.OrderStatusPending,
		PaymentMethod:  model.PaymentMethodCashOnDelivery,
		TotalPrice:     decimal.RequireFromString("25.00"),
	}
}

func onlineOrder() model.Order {
	o := codOrder()
	o.PaymentMethod = model.PaymentMethodBkash
	return o
}

// Test: CODは支払い記録（pending）を作って注文をPROCESSINGへ
func TestPaymentUsecase_Process_CODCreatesPendingPayment(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(codOrder(), nil)
	repos.payments.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{}, repo.ErrNotFound)
	repos.payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 100 &&
			p.PaymentID == "COD-3F2A9B1C" &&
			p.Status == model.PaymentStatusPending &&
			p.Amount.Equal(decimal.RequireFromString("25.00"))
	})).Return(model.Payment{ID: 1, OrderID: 100, PaymentID: "COD-3F2A9B1C", Status: model.PaymentStatusPending}, nil)
	repos.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusProcessing).Return(nil)

	out, err := uc.Process(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowCODAccepted, out.State)
	assert.NotNil(t, out.Payment)
	repos.payments.AssertExpectations(t)
	repos.orders.AssertExpectations(t)
}

// Test: CODの2回目は記録を作らない（支払いはちょうど1件）
func TestPaymentUsecase_Process_CODIsIdempotent(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(codOrder(), nil)
	repos.payments.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{
		ID: 1, OrderID: 100, PaymentID: "COD-3F2A9B1C", Status: model.PaymentStatusPending,
	}, nil)

	out, err := uc.Process(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowCODAccepted, out.State)
	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// Test: オンライン決済のProcessはフォーム表示だけ（書き込みなし）
func TestPaymentUsecase_Process_OnlineShowsForm(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(onlineOrder(), nil)

	out, err := uc.Process(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowForm, out.State)
	assert.Equal(t, "bKash", out.PaymentMethod)
	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: 支払い済み注文のProcessは何もしない
func TestPaymentUsecase_Process_AlreadyPaid(t *testing.T) {
	uc, repos := newPaymentUsecase()

	o := onlineOrder()
	o.PaymentCompleted = true
	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(o, nil)

	out, err := uc.Process(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowAlreadyPaid, out.State)
	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: オンライン決済の確定。支払いIDは採番、注文は支払い済みに
func TestPaymentUsecase_Complete_Online(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(onlineOrder(), nil)
	repos.payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 100 &&
			p.PaymentID == "AB12CD34EF56" &&
			p.Status == model.PaymentStatusCompleted
	})).Return(model.Payment{ID: 2, OrderID: 100, PaymentID: "AB12CD34EF56", Status: model.PaymentStatusCompleted}, nil)
	repos.orders.On("MarkPaymentCompleted", mock.Anything, int64(100)).Return(nil)
	repos.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusProcessing).Return(nil)

	out, err := uc.Complete(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowCompleted, out.State)
	repos.orders.AssertExpectations(t)
	repos.payments.AssertExpectations(t)
}

// Test: 2回目のCompleteは「支払い済み」で止まる
func TestPaymentUsecase_Complete_SecondCallIsAlreadyPaid(t *testing.T) {
	uc, repos := newPaymentUsecase()

	o := onlineOrder()
	o.PaymentCompleted = true
	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(o, nil)

	out, err := uc.Complete(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowAlreadyPaid, out.State)
	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: CODにCompleteは使えない
func TestPaymentUsecase_Complete_CODRejected(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(codOrder(), nil)

	_, err := uc.Complete(context.Background(), 1, "3F2A9B1C")

	assertHTTPError(t, err, http.StatusBadRequest, "invalid payment method")
	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Test: 他人の注文は存在しない扱い
func TestPaymentUsecase_Process_OtherUsersOrderIsNotFound(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(codOrder(), nil)

	_, err := uc.Process(context.Background(), 99, "3F2A9B1C")

	assertHTTPError(t, err, http.StatusNotFound, "not found")
}

// Test: Cancelは通知だけでDBに書かない
func TestPaymentUsecase_Cancel_WritesNothing(t *testing.T) {
	uc, repos := newPaymentUsecase()

	repos.orders.On("FindByTrackingNumber", mock.Anything, "3F2A9B1C").Return(onlineOrder(), nil)

	out, err := uc.Cancel(context.Background(), 1, "3F2A9B1C")

	assert.NoError(t, err)
	assert.Equal(t, usecase.PaymentFlowCancelled, out.State)
	repos.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
