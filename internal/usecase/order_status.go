package usecase

import (
	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 明細の状態から注文全体のフルフィルメント状態を導出する。
// 全件fulfilledなら"fulfilled"、一部なら"partially_fulfilled"、0件なら未設定("")。
func DeriveFulfillmentStatus(lineItems []model.LineItem) string {
	total := len(lineItems)
	if total == 0 {
		return ""
	}

	fulfilled := 0
	for _, li := range lineItems {
		if li.FulfillmentStatus == model.FulfillmentFulfilled {
			fulfilled++
		}
	}

	switch {
	case fulfilled == total:
		return model.FulfillmentFulfilled
	case fulfilled > 0:
		return model.FulfillmentPartially
	default:
		return ""
	}
}

// 支払い合計と注文合計から支払い状態を導出する。
// 過払いなどはpendingに落とす。
func DerivePaymentStatus(totalPaid, totalPrice decimal.Decimal) string {
	switch {
	case totalPaid.Equal(totalPrice):
		return model.PaymentStatusPaid
	case totalPaid.IsZero():
		return model.PaymentStatusPending
	case totalPaid.LessThan(totalPrice):
		return model.PaymentStatusPartiallyPaid
	default:
		return model.PaymentStatusPending
	}
}
