package usecase

import (
	"testing"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateVariants_CartesianProduct(t *testing.T) {
	options := []model.VariantOption{
		{Name: "Size", Values: []string{"S", "M"}},
		{Name: "Color", Values: []string{"Red", "Blue"}},
	}

	variants := GenerateVariants(options, "TEE", decimal.NewFromInt(1500), 10)

	assert.Len(t, variants, 4)
	assert.Equal(t, "TEE-S-Red", variants[0].SKU)
	assert.Equal(t, "S, Red", variants[0].Name)
	assert.Equal(t, "TEE-M-Blue", variants[3].SKU)

	for i, v := range variants {
		assert.Equal(t, i+1, v.VariantID)
		assert.Equal(t, 10, v.AvailableQuantity)
		assert.Equal(t, 0, v.CommittedQuantity)
		assert.True(t, v.Price.Equal(decimal.NewFromInt(1500)))
		assert.True(t, v.IsActive)
	}
}

// Test: 値が空のオプションは直積から除外
func TestGenerateVariants_SkipsEmptyOptions(t *testing.T) {
	options := []model.VariantOption{
		{Name: "Size", Values: []string{"S", "M"}},
		{Name: "Material", Values: nil},
	}

	variants := GenerateVariants(options, "TEE", decimal.Zero, 0)
	assert.Len(t, variants, 2)
}

func TestGenerateVariants_NoOptions(t *testing.T) {
	variants := GenerateVariants(nil, "TEE", decimal.NewFromInt(500), 3)

	assert.Len(t, variants, 1)
	assert.Equal(t, "TEE", variants[0].SKU)
	assert.Equal(t, "Default", variants[0].Name)
}
