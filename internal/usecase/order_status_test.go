package usecase

import (
	"testing"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func itemsWithStatus(statuses ...string) []model.LineItem {
	items := make([]model.LineItem, 0, len(statuses))
	for i, s := range statuses {
		items = append(items, model.LineItem{
			ProductID:         "p1",
			VariantID:         i + 1,
			Quantity:          1,
			FulfillmentStatus: s,
		})
	}
	return items
}

func TestDeriveFulfillmentStatus(t *testing.T) {
	//空なら未設定
	assert.Equal(t, "", DeriveFulfillmentStatus(nil))
	assert.Equal(t, "", DeriveFulfillmentStatus([]model.LineItem{}))

	//全件fulfilled
	assert.Equal(t, model.FulfillmentFulfilled,
		DeriveFulfillmentStatus(itemsWithStatus("fulfilled", "fulfilled")))

	//3件中1件
	assert.Equal(t, model.FulfillmentPartially,
		DeriveFulfillmentStatus(itemsWithStatus("fulfilled", "tofulfill", "tofulfill")))

	//0件fulfilled
	assert.Equal(t, "", DeriveFulfillmentStatus(itemsWithStatus("tofulfill", "tofulfill")))
}

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(100)

	assert.Equal(t, model.PaymentStatusPending, DerivePaymentStatus(decimal.Zero, total))
	assert.Equal(t, model.PaymentStatusPartiallyPaid, DerivePaymentStatus(decimal.NewFromInt(50), total))
	assert.Equal(t, model.PaymentStatusPaid, DerivePaymentStatus(decimal.NewFromInt(100), total))

	//過払いはpendingに落とす
	assert.Equal(t, model.PaymentStatusPending, DerivePaymentStatus(decimal.NewFromInt(150), total))
}
