package usecase

import "time"

// 時刻はmain側から注入する（テストで固定できるように）
type Clock interface {
	Now() time.Time
}

// 追跡番号の採番。UUID先頭セグメントの大文字8桁（main側で実装）。
// 衝突の再試行はしない。万一衝突したらordersのunique indexに当たって
// チェックアウトのトランザクションごと失敗する。
type TrackingNumberGenerator interface {
	NewTrackingNumber() string
}

// オンライン決済の支払いID採番（英数12桁のランダム文字列）
type PaymentIDGenerator interface {
	NewPaymentID() string
}
