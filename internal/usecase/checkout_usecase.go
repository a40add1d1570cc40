package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// チェックアウト入力の検証はvalidatorパッケージに委ねる
type CheckoutValidator interface {
	ValidateCheckout(in CheckoutInput) error
}

// CheckoutUsecase はカートを注文に変換する。
// 注文作成・明細作成・在庫減算・カートクリアは1つのトランザクションで行い、
// どれか1つでも失敗したら全部なかったことにする。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	validator CheckoutValidator
	tracking  TrackingNumberGenerator
	clock     Clock
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	validator CheckoutValidator,
	tracking TrackingNumberGenerator,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		validator: validator,
		tracking:  tracking,
		clock:     clock,
	}
}

type CheckoutInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	PostalCode    string
	PaymentMethod model.PaymentMethod
}

// GetCheckoutSummary はチェックアウト画面用のカート内容（フォーム表示のGET）。
func (u *CheckoutUsecase) GetCheckoutSummary(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		respItems := make([]CartItemResponse, 0, len(items))
		total := decimal.Zero
		var totalItems int64 = 0

		for _, it := range items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				//取り下げられた商品は表示から外す
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			subtotal := p.Price.Mul(decimal.NewFromInt(it.Quantity))
			respItems = append(respItems, CartItemResponse{
				ProductID: it.ProductID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
			totalItems += it.Quantity
		}

		out = CartResponse{Items: respItems, TotalPrice: total, TotalItems: totalItems}
		return nil
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// PlaceOrder はチェックアウトの本体。
// 合計は確定時の商品価格で計算し直す（カート追加時の価格は使わない）。
// 在庫は条件付きUPDATEで減算するので、同時に注文が走っても売り越さない。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.validator.ValidateCheckout(in); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		now := u.clock.Now()

		//在庫を確定時に再チェックして減らす
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "invalid cart item")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//在庫減算（足りないなら false）。失敗したらtxごとロールバック
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("only %d of '%s' available", p.Stock, p.Name))
			}

			//確定時点の価格をスナップショット
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				Price:               p.Price,
				Quantity:            ci.Quantity,
				CreatedAt:           now,
			})

			total = total.Add(p.Price.Mul(decimal.NewFromInt(ci.Quantity)))
		}

		order := model.Order{
			UserID:           userID,
			TrackingNumber:   u.tracking.NewTrackingNumber(),
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			Email:            in.Email,
			Phone:            in.Phone,
			Address:          in.Address,
			City:             in.City,
			PostalCode:       in.PostalCode,
			Status:           model.OrderStatusPending,
			PaymentMethod:    in.PaymentMethod,
			PaymentCompleted: false,
			TotalPrice:       total,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする（カート行自体は残す）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
