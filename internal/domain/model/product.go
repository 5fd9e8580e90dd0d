package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
)

// 購入可能な1構成（サイズ・色など）。在庫カウンタはバリアント単位で持つ。
// available: 未割当在庫 / committed: 未出荷注文に割当済みの在庫。
type ProductVariant struct {
	VariantID         int             `json:"variant_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"available_quantity"`
	CommittedQuantity int             `json:"committed_quantity"`
	IsActive          bool            `json:"is_active"`
}

// 手持ち在庫（available + committed）。
func (v ProductVariant) OnHandQuantity() int {
	return v.AvailableQuantity + v.CommittedQuantity
}

// バリアント生成の軸（例: Name="Size", Values=["S","M","L"]）。
type VariantOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ProductReview struct {
	ID           string    `json:"id"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ImgUrls      []string  `json:"img_urls"`
	IsVerified   bool      `json:"is_verified"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
}

// 商品。バリアント・オプション・レビューは1ドキュメント相当としてJSONBに埋め込む。
// LockVersionはバリアント差し替えの楽観ロック用（商品粒度）。
type Product struct {
	Base
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Description   string           `gorm:"type:text" json:"description"`
	ProductType   ProductType      `gorm:"type:varchar(30)" json:"product_type"`
	ImgUrls       []string         `gorm:"serializer:json;type:jsonb" json:"img_urls"`
	Variants      []ProductVariant `gorm:"serializer:json;type:jsonb" json:"variants"`
	Options       []VariantOption  `gorm:"serializer:json;type:jsonb" json:"options"`
	Tags          []string         `gorm:"serializer:json;type:jsonb" json:"tags"`
	Reviews       []ProductReview  `gorm:"serializer:json;type:jsonb" json:"reviews,omitempty"`
	AverageRating float64          `gorm:"not null;default:0" json:"average_rating"`
	ReviewCount   int              `gorm:"not null;default:0" json:"review_count"`
	LockVersion   int64            `gorm:"not null;default:0" json:"-"`
}

// バリアントIDで1件引く。見つからなければnil。
func (p *Product) Variant(variantID int) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// レビュー集計（削除済みは除外）を再計算する。
func (p *Product) UpdateRatingStats() {
	var sum, count int
	for _, r := range p.Reviews {
		if r.IsDeleted {
			continue
		}
		sum += r.Rating
		count++
	}

	if count == 0 {
		p.AverageRating = 0
		p.ReviewCount = 0
		return
	}

	p.ReviewCount = count
	p.AverageRating = float64(sum) / float64(count)
}
