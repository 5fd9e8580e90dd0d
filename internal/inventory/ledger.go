package inventory

import (
	"fmt"

	"app/internal/domain/model"
)

// 1バリアントの在庫カウンタに対する純粋操作。
// どの操作もカウンタを負にしない。足りない場合は黙って丸めず必ずエラー。

// 要求数が未割当在庫を超えている。
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough available stock for variant %s: available %d, requested %d", e.SKU, e.Available, e.Requested)
}

// committedが負になる操作が要求された。整合性破壊なので呼び出し側で致命扱いにする。
type NegativeCommittedError struct {
	SKU       string
	Committed int
	Requested int
}

func (e *NegativeCommittedError) Error() string {
	return fmt.Sprintf("committed quantity for variant %s is insufficient: committed %d, requested %d", e.SKU, e.Committed, e.Requested)
}

// 要求数が引当可能か検証する。境界（requested == available）は成功。
func ValidateAvailability(v model.ProductVariant, requested int) error {
	if requested > v.AvailableQuantity {
		return &InsufficientStockError{SKU: v.SKU, Available: v.AvailableQuantity, Requested: requested}
	}
	return nil
}

// 在庫を引き当てる: available -= qty, committed += qty。
func Reserve(v *model.ProductVariant, qty int) error {
	if err := ValidateAvailability(*v, qty); err != nil {
		return err
	}
	v.AvailableQuantity -= qty
	v.CommittedQuantity += qty
	return nil
}

// 引当を戻す: available += qty, committed -= qty。
// 明細の削除・数量減で使う（出荷前のみ）。
func Release(v *model.ProductVariant, qty int) error {
	if qty > v.CommittedQuantity {
		return &NegativeCommittedError{SKU: v.SKU, Committed: v.CommittedQuantity, Requested: qty}
	}
	v.AvailableQuantity += qty
	v.CommittedQuantity -= qty
	return nil
}

// 出荷確定: committed -= qty。
// availableは引当時に減っているので、ここではcommittedだけ清算する。
func CommitFulfillment(v *model.ProductVariant, qty int) error {
	if qty > v.CommittedQuantity {
		return &NegativeCommittedError{SKU: v.SKU, Committed: v.CommittedQuantity, Requested: qty}
	}
	v.CommittedQuantity -= qty
	return nil
}
