package usecase

import (
	"fmt"
	"strings"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// GenerateVariants はオプション値の直積からバリアント一覧を生成する。
// 例: Size[S,M] x Color[Red,Blue] → 4バリアント。
// SKUは"<base>-<値1>-<値2>"、名前は"値1, 値2"。価格と数量は初期値を全件に適用。
func GenerateVariants(options []model.VariantOption, baseSKU string, basePrice decimal.Decimal, baseQuantity int) []model.ProductVariant {
	combos := [][]string{{}}
	for _, opt := range options {
		if len(opt.Values) == 0 {
			continue
		}
		next := make([][]string, 0, len(combos)*len(opt.Values))
		for _, c := range combos {
			for _, v := range opt.Values {
				combo := make([]string, len(c), len(c)+1)
				copy(combo, c)
				next = append(next, append(combo, v))
			}
		}
		combos = next
	}

	variants := make([]model.ProductVariant, 0, len(combos))
	for i, combo := range combos {
		sku := baseSKU
		if len(combo) > 0 {
			sku = fmt.Sprintf("%s-%s", baseSKU, strings.Join(combo, "-"))
		}
		name := strings.Join(combo, ", ")
		if name == "" {
			name = "Default"
		}
		variants = append(variants, model.ProductVariant{
			VariantID:         i + 1,
			SKU:               sku,
			Name:              name,
			Price:             basePrice,
			AvailableQuantity: baseQuantity,
			IsActive:          true,
		})
	}
	return variants
}
