package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 明細のフルフィルメント状態
const (
	FulfillmentToFulfill = "tofulfill"
	FulfillmentFulfilled = "fulfilled"

	//注文全体のみで使う
	FulfillmentPartially = "partially_fulfilled"
)

// 支払い状態
const (
	PaymentStatusPaid          = "paid"
	PaymentStatusPending       = "pending"
	PaymentStatusPartiallyPaid = "partially_paid"
)

// 注文内の明細は (ProductID, VariantID) で一意。
type LineItemKey struct {
	ProductID string
	VariantID int
}

// 注文明細。タイトル・価格・出品者は注文時点のスナップショット。
type LineItem struct {
	ProductID           string          `json:"product_id"`
	VariantID           int             `json:"variant_id"`
	Quantity            int             `json:"quantity"`
	FulfillableQuantity int             `json:"fulfillable_quantity"`
	FulfillmentStatus   string          `json:"fulfillment_status"`
	Price               decimal.Decimal `json:"price"`
	Title               string          `json:"title"`
	VariantTitle        string          `json:"variant_title"`
	ImageURL            string          `json:"image_url"`
	SellerID            string          `json:"seller_id"`
	SellerName          string          `json:"seller_name"`
}

func (li LineItem) Key() LineItemKey {
	return LineItemKey{ProductID: li.ProductID, VariantID: li.VariantID}
}

type ShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
}

type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type Payment struct {
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

type PaymentInfo struct {
	Payments []Payment `json:"payments"`
}

// 支払い済み合計。
func (p PaymentInfo) TotalPaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, payment := range p.Payments {
		total = total.Add(payment.Amount)
	}
	return total
}

// 最後に記録された支払い。なければnil。
func (p PaymentInfo) LatestPayment() *Payment {
	if len(p.Payments) == 0 {
		return nil
	}
	return &p.Payments[len(p.Payments)-1]
}

// 注文の追記専用タイムライン。画像は永続URLのみ保持する。
type TimeLineDetails struct {
	CreatedAt time.Time `json:"created_at"`
	Comment   string    `json:"comment"`
	ImgUrls   []string  `json:"img_urls,omitempty"`
}

// 注文。明細・支払い・タイムラインはJSONBに埋め込む。
// Nameはテナントごとの連番から採番した表示用番号（例 "#1001"）。
type Order struct {
	Base
	Name               string            `gorm:"type:varchar(30);index" json:"name"`
	FinancialStatus    string            `gorm:"type:varchar(30)" json:"financial_status"`
	FulfillmentStatus  string            `gorm:"type:varchar(30);index" json:"fulfillment_status"`
	Note               string            `gorm:"type:text" json:"note"`
	Phone              string            `gorm:"type:varchar(30)" json:"phone"`
	SubtotalPrice      decimal.Decimal   `gorm:"type:numeric;not null" json:"subtotal_price"`
	TotalLineItemsPrice decimal.Decimal  `gorm:"type:numeric;not null" json:"total_line_items_price"`
	TotalPrice         decimal.Decimal   `gorm:"type:numeric;not null" json:"total_price"`
	TotalShippingPrice decimal.Decimal   `gorm:"type:numeric;not null" json:"total_shipping_price"`
	TotalDiscountPrice decimal.Decimal   `gorm:"type:numeric;not null" json:"total_discount_price"`
	ShippingAddress    ShippingAddress   `gorm:"serializer:json;type:jsonb" json:"shipping_address"`
	Customer           CustomerInfo      `gorm:"serializer:json;type:jsonb" json:"customer"`
	LineItems          []LineItem        `gorm:"serializer:json;type:jsonb" json:"line_items"`
	PaymentInfo        PaymentInfo       `gorm:"serializer:json;type:jsonb" json:"payment_info"`
	IsCancelled        bool              `gorm:"not null;default:false" json:"is_cancelled"`
	TimeLineDetails    []TimeLineDetails `gorm:"serializer:json;type:jsonb" json:"time_line_details"`
	Tags               []string          `gorm:"serializer:json;type:jsonb" json:"tags"`
}

// 未払い残額。
func (o *Order) TotalOutstanding() decimal.Decimal {
	return o.TotalPrice.Sub(o.PaymentInfo.TotalPaidAmount())
}

// キーで明細を1件引く。見つからなければnil。
func (o *Order) LineItem(key LineItemKey) *LineItem {
	for i := range o.LineItems {
		if o.LineItems[i].Key() == key {
			return &o.LineItems[i]
		}
	}
	return nil
}
