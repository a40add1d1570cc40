package validator

import (
	"errors"
	"regexp"
	"strings"

	"app/internal/usecase"
)

type orderValidator struct{}

// Usecaseは interface を依存注入
func NewOrderValidator() usecase.CheckoutValidator {
	return &orderValidator{}
}

// チェックアウトの入力を検証。
// どの項目が悪いか分かるエラーメッセージを返す（そのままレスポンスに載る）。
func (v *orderValidator) ValidateCheckout(in usecase.CheckoutInput) error {
	// 必須チェック
	required := []struct {
		name  string
		value string
	}{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"address", in.Address},
		{"city", in.City},
		{"postal_code", in.PostalCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(f.name + " is required")
		}
	}

	// email形式
	if !isEmailLike(strings.TrimSpace(in.Email)) {
		return errors.New("invalid email")
	}

	// 支払い方法は定義済みのものだけ
	if !in.PaymentMethod.Valid() {
		return errors.New("invalid payment method")
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
