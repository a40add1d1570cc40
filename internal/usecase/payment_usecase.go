package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 支払いフローの状態。注文ごとに 支払いなし → pending → completed と進む。
type PaymentFlowState string

const (
	PaymentFlowAlreadyPaid PaymentFlowState = "already_paid"
	PaymentFlowCODAccepted PaymentFlowState = "cod_accepted"
	PaymentFlowForm        PaymentFlowState = "payment_form"
	PaymentFlowCompleted   PaymentFlowState = "completed"
	PaymentFlowCancelled   PaymentFlowState = "cancelled"
)

// PaymentUsecase は支払いの記録と注文ステータスの更新を行う。
// ゲートウェイは実在しない（シミュレーションで常に成功する）。
type PaymentUsecase struct {
	tx    repo.TransactionManager
	idGen PaymentIDGenerator
	clock Clock
}

func NewPaymentUsecase(tx repo.TransactionManager, idGen PaymentIDGenerator, clock Clock) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, idGen: idGen, clock: clock}
}

type PaymentFlowOutput struct {
	State          PaymentFlowState `json:"state"`
	Message        string           `json:"message,omitempty"`
	TrackingNumber string           `json:"tracking_number"`
	PaymentMethod  string           `json:"payment_method"`
	Amount         decimal.Decimal  `json:"amount"`
	Payment        *PaymentOutput   `json:"payment,omitempty"`
}

// Process は支払い処理の入口。
// CODなら支払い記録（pending）を作って注文をPROCESSINGへ。2回呼ばれても記録は増えない。
// オンライン決済なら決済フォームの情報を返すだけで、まだ何も書かない。
func (u *PaymentUsecase) Process(ctx context.Context, userID int64, trackingNumber string) (PaymentFlowOutput, error) {
	if userID <= 0 {
		return PaymentFlowOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out PaymentFlowOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := u.findOwnedOrder(ctx, r, userID, trackingNumber)
		if err != nil {
			return err
		}

		//支払い済みなら何もせず確認画面へ
		if order.PaymentCompleted {
			out = PaymentFlowOutput{
				State:          PaymentFlowAlreadyPaid,
				Message:        "this order has already been paid for",
				TrackingNumber: order.TrackingNumber,
				PaymentMethod:  order.PaymentMethod.Label(),
				Amount:         order.TotalPrice,
			}
			return nil
		}

		if order.PaymentMethod == model.PaymentMethodCashOnDelivery {
			existing, err := r.Payments().FindByOrderID(ctx, order.ID)
			if err == nil {
				//すでに作成済み。二重に作らない
				po := toPaymentOutput(existing)
				out = PaymentFlowOutput{
					State:          PaymentFlowCODAccepted,
					TrackingNumber: order.TrackingNumber,
					PaymentMethod:  order.PaymentMethod.Label(),
					Amount:         order.TotalPrice,
					Payment:        &po,
				}
				return nil
			}
			if !errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//CODは配達時に支払うので、ここではpendingのまま記録だけ残す
			payment := model.Payment{
				OrderID:       order.ID,
				PaymentID:     "COD-" + order.TrackingNumber,
				Amount:        order.TotalPrice,
				Status:        model.PaymentStatusPending,
				PaymentMethod: order.PaymentMethod.Label(),
				CreatedAt:     u.clock.Now(),
			}
			created, err := r.Payments().Create(ctx, payment)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusProcessing); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			po := toPaymentOutput(created)
			out = PaymentFlowOutput{
				State:          PaymentFlowCODAccepted,
				TrackingNumber: order.TrackingNumber,
				PaymentMethod:  order.PaymentMethod.Label(),
				Amount:         order.TotalPrice,
				Payment:        &po,
			}
			return nil
		}

		//オンライン決済はフォーム表示（書き込みなし）
		out = PaymentFlowOutput{
			State:          PaymentFlowForm,
			TrackingNumber: order.TrackingNumber,
			PaymentMethod:  order.PaymentMethod.Label(),
			Amount:         order.TotalPrice,
		}
		return nil
	})

	if err != nil {
		return PaymentFlowOutput{}, err
	}
	return out, nil
}

// Complete はオンライン決済（bkash/nagad/rocket/card）の確定。
// ゲートウェイは常に成功する想定で、支払い記録を作って注文を支払い済みにする。
func (u *PaymentUsecase) Complete(ctx context.Context, userID int64, trackingNumber string) (PaymentFlowOutput, error) {
	if userID <= 0 {
		return PaymentFlowOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out PaymentFlowOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := u.findOwnedOrder(ctx, r, userID, trackingNumber)
		if err != nil {
			return err
		}

		if order.PaymentCompleted {
			out = PaymentFlowOutput{
				State:          PaymentFlowAlreadyPaid,
				Message:        "this order has already been paid for",
				TrackingNumber: order.TrackingNumber,
				PaymentMethod:  order.PaymentMethod.Label(),
				Amount:         order.TotalPrice,
			}
			return nil
		}

		if order.PaymentMethod == model.PaymentMethodCashOnDelivery {
			return NewHTTPError(http.StatusBadRequest, "invalid payment method")
		}

		//決済シミュレーション（本物のゲートウェイは無いので常に成功）
		payment := model.Payment{
			OrderID:       order.ID,
			PaymentID:     u.idGen.NewPaymentID(),
			Amount:        order.TotalPrice,
			Status:        model.PaymentStatusCompleted,
			PaymentMethod: order.PaymentMethod.Label(),
			CreatedAt:     u.clock.Now(),
		}
		created, err := r.Payments().Create(ctx, payment)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().MarkPaymentCompleted(ctx, order.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusProcessing); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		po := toPaymentOutput(created)
		out = PaymentFlowOutput{
			State:          PaymentFlowCompleted,
			Message:        "payment completed successfully",
			TrackingNumber: order.TrackingNumber,
			PaymentMethod:  order.PaymentMethod.Label(),
			Amount:         order.TotalPrice,
			Payment:        &po,
		}
		return nil
	})

	if err != nil {
		return PaymentFlowOutput{}, err
	}
	return out, nil
}

// Cancel は支払い中断の通知だけ。DBには何も書かない。
func (u *PaymentUsecase) Cancel(ctx context.Context, userID int64, trackingNumber string) (PaymentFlowOutput, error) {
	if userID <= 0 {
		return PaymentFlowOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out PaymentFlowOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := u.findOwnedOrder(ctx, r, userID, trackingNumber)
		if err != nil {
			return err
		}

		out = PaymentFlowOutput{
			State:          PaymentFlowCancelled,
			Message:        "your payment was canceled",
			TrackingNumber: order.TrackingNumber,
			PaymentMethod:  order.PaymentMethod.Label(),
			Amount:         order.TotalPrice,
		}
		return nil
	})

	if err != nil {
		return PaymentFlowOutput{}, err
	}
	return out, nil
}

// 追跡番号から本人の注文を引く。他人の注文は「存在しない扱い」。
func (u *PaymentUsecase) findOwnedOrder(ctx context.Context, r repo.TxRepos, userID int64, trackingNumber string) (model.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	order, err := r.Orders().FindByTrackingNumber(ctx, trackingNumber)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return order, nil
}
