package inventory

import (
	"errors"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func variant(available, committed int) model.ProductVariant {
	return model.ProductVariant{
		VariantID:         1,
		SKU:               "TEE-M-RED",
		AvailableQuantity: available,
		CommittedQuantity: committed,
		IsActive:          true,
	}
}

// Test: 境界値（requested == available）は成功
func TestValidateAvailabilityBoundary(t *testing.T) {
	v := variant(5, 0)

	assert.NoError(t, ValidateAvailability(v, 5))
	assert.NoError(t, ValidateAvailability(v, 0))

	err := ValidateAvailability(v, 6)
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "TEE-M-RED", insufficient.SKU)
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 6, insufficient.Requested)
}

func TestReserveMovesAvailableToCommitted(t *testing.T) {
	v := variant(5, 0)

	err := Reserve(&v, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, v.AvailableQuantity)
	assert.Equal(t, 3, v.CommittedQuantity)
	assert.Equal(t, 5, v.OnHandQuantity())
}

// Test: 在庫超過のReserveはカウンタを変えない
func TestReserveInsufficientStock(t *testing.T) {
	v := variant(5, 0)

	err := Reserve(&v, 10)
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 5, v.AvailableQuantity)
	assert.Equal(t, 0, v.CommittedQuantity)
}

// Test: Reserve→Releaseで元に戻る（round-trip）
func TestReserveReleaseRoundTrip(t *testing.T) {
	v := variant(5, 2)

	assert.NoError(t, Reserve(&v, 4))
	assert.NoError(t, Release(&v, 4))

	assert.Equal(t, 5, v.AvailableQuantity)
	assert.Equal(t, 2, v.CommittedQuantity)
}

func TestReleaseMoreThanCommitted(t *testing.T) {
	v := variant(2, 3)

	err := Release(&v, 4)
	var negative *NegativeCommittedError
	assert.True(t, errors.As(err, &negative))
	assert.Equal(t, 2, v.AvailableQuantity)
	assert.Equal(t, 3, v.CommittedQuantity)
}

func TestCommitFulfillmentClearsCommittedOnly(t *testing.T) {
	v := variant(2, 3)

	err := CommitFulfillment(&v, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, v.AvailableQuantity)
	assert.Equal(t, 0, v.CommittedQuantity)
}

// Test: committed不足のCommitFulfillmentは失敗してカウンタ不変
func TestCommitFulfillmentNegativeCommitted(t *testing.T) {
	v := variant(2, 1)

	err := CommitFulfillment(&v, 2)
	var negative *NegativeCommittedError
	assert.True(t, errors.As(err, &negative))
	assert.Equal(t, 1, negative.Committed)
	assert.Equal(t, 2, negative.Requested)
	assert.Equal(t, 1, v.CommittedQuantity)
}

// Test: 前提を守る操作列の後でカウンタは常に非負
func TestCountersNeverNegative(t *testing.T) {
	v := variant(10, 0)

	assert.NoError(t, Reserve(&v, 6))
	assert.NoError(t, Release(&v, 2))
	assert.NoError(t, Reserve(&v, 3))
	assert.NoError(t, CommitFulfillment(&v, 5))
	assert.NoError(t, Release(&v, 2))

	assert.GreaterOrEqual(t, v.AvailableQuantity, 0)
	assert.GreaterOrEqual(t, v.CommittedQuantity, 0)
}
