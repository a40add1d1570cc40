package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID               int64             `json:"id"`
	TrackingNumber   string            `json:"tracking_number"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Address          string            `json:"address"`
	City             string            `json:"city"`
	PostalCode       string            `json:"postal_code"`
	Status           string            `json:"status"`
	PaymentMethod    string            `json:"payment_method"`
	PaymentCompleted bool              `json:"payment_completed"`
	TotalPrice       decimal.Decimal   `json:"total_price"`
	CreatedAt        time.Time         `json:"created_at"`
	Items            []OrderItemOutput `json:"items"`
}

type PaymentOutput struct {
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// 注文確認画面用（支払いはまだ無いこともある）
type OrderCompleteOutput struct {
	Order   OrderOutput    `json:"order"`
	Payment *PaymentOutput `json:"payment,omitempty"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文確認画面（本人のみ）。支払い記録があれば一緒に返す。
func (u *OrderUsecase) GetOrderComplete(ctx context.Context, userID int64, trackingNumber string) (OrderCompleteOutput, error) {
	if userID <= 0 {
		return OrderCompleteOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderCompleteOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByTrackingNumber(ctx, strings.TrimSpace(trackingNumber))
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out.Order = toOrderOutput(o, items)

		p, err := r.Payments().FindByOrderID(ctx, o.ID)
		if errors.Is(err, repo.ErrNotFound) {
			//支払い前でも確認画面は出す
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		po := toPaymentOutput(p)
		out.Payment = &po
		return nil
	})

	if err != nil {
		return OrderCompleteOutput{}, err
	}
	return out, nil
}

// TrackOrder は追跡番号で注文を照会する。
// userIDが0なら匿名照会（追跡番号を知っていること自体が資格）。
// ログイン済みなら本人の注文以外は見せない。
// 失敗理由（存在しない・他人のもの・形式不正）はすべて同じメッセージに畳む。
func (u *OrderUsecase) TrackOrder(ctx context.Context, trackingNumber string, userID int64) (OrderOutput, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "invalid tracking number")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByTrackingNumber(ctx, trackingNumber)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "invalid tracking number")
		}
		if err != nil {
			return NewHTTPError(http.StatusNotFound, "invalid tracking number")
		}

		if userID > 0 && o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "invalid tracking number")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusNotFound, "invalid tracking number")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:               o.ID,
		TrackingNumber:   o.TrackingNumber,
		FirstName:        o.FirstName,
		LastName:         o.LastName,
		Email:            o.Email,
		Phone:            o.Phone,
		Address:          o.Address,
		City:             o.City,
		PostalCode:       o.PostalCode,
		Status:           string(o.Status),
		PaymentMethod:    string(o.PaymentMethod),
		PaymentCompleted: o.PaymentCompleted,
		TotalPrice:       o.TotalPrice,
		CreatedAt:        o.CreatedAt,
		Items:            outItems,
	}
}

func toPaymentOutput(p model.Payment) PaymentOutput {
	return PaymentOutput{
		PaymentID:     p.PaymentID,
		Amount:        p.Amount,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
	}
}
