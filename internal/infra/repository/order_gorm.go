package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("is_deleted = ?", false)
}

func (r *OrderGormRepository) Insert(ctx context.Context, o model.Order) error {
	return r.db.WithContext(ctx).Create(&o).Error
}

func (r *OrderGormRepository) FindByID(ctx context.Context, id string) (model.Order, error) {
	var o model.Order
	err := r.base(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, clientID string, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.base(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ListByFulfillmentStatus(ctx context.Context, clientID string, status string, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.base(ctx).
		Where("client_id = ? AND fulfillment_status = ?", clientID, status).
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// 明細に指定出品者を含む注文（テナント横断）。JSONBの包含演算子で引く。
func (r *OrderGormRepository) ListBySellerID(ctx context.Context, sellerID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.base(ctx).
		Where("line_items @> ?", fmt.Sprintf(`[{"seller_id":%q}]`, sellerID)).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// 注文番号と宛名のILIKE検索。
func (r *OrderGormRepository) Search(ctx context.Context, clientID string, query string, limit int) ([]model.Order, error) {
	if query == "" {
		return []model.Order{}, nil
	}

	like := "%" + query + "%"
	var orders []model.Order
	err := r.base(ctx).
		Where("client_id = ?", clientID).
		Where("name ILIKE ? OR shipping_address->>'first_name' ILIKE ? OR shipping_address->>'last_name' ILIKE ?", like, like, like).
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ReplaceLineItems(ctx context.Context, id string, items []model.LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	res := r.base(ctx).
		Where("id = ?", id).
		Update("line_items", gorm.Expr("?::jsonb", string(payload)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) SetFields(ctx context.Context, id string, fields map[string]interface{}) error {
	updates, err := jsonbUpdates(fields)
	if err != nil {
		return err
	}

	res := r.base(ctx).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// タイムラインはJSONB連結で追記だけする。既存要素は書き換えない。
func (r *OrderGormRepository) AppendTimeline(ctx context.Context, id string, entry model.TimeLineDetails) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	res := r.base(ctx).
		Where("id = ?", id).
		Update("time_line_details", gorm.Expr("COALESCE(time_line_details, '[]'::jsonb) || ?::jsonb", string(payload)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) SetCancelled(ctx context.Context, id string) error {
	res := r.base(ctx).Where("id = ?", id).Update("is_cancelled", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.base(ctx).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
