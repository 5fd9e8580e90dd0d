package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 削除済みを除いたベースクエリ
func (r *ProductGormRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("is_deleted = ?", false)
}

func (r *ProductGormRepository) scoped(tx *gorm.DB, scope repo.Scope, clientID string) *gorm.DB {
	if scope == repo.ScopeOwned {
		return tx.Where("client_id = ?", clientID)
	}
	return tx
}

// テナント内の商品を検索/価格帯/ソート/ページング付きで返す。
// 価格はバリアントのJSONBに入っているのでEXISTSで引く。
func (r *ProductGormRepository) List(ctx context.Context, clientID string, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.base(ctx).Where("client_id = ?", clientID)

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("title ILIKE ?", like)
	}

	//価格帯（いずれかのバリアントが該当すればヒット）
	if q.MinPrice != nil {
		tx = tx.Where("EXISTS (SELECT 1 FROM jsonb_array_elements(variants) v WHERE (v->>'price')::numeric >= ?)", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("EXISTS (SELECT 1 FROM jsonb_array_elements(variants) v WHERE (v->>'price')::numeric <= ?)", *q.MaxPrice)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	//sort（価格は先頭バリアント基準）
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("(variants->0->>'price')::numeric asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("(variants->0->>'price')::numeric desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, scope repo.Scope, clientID string, id string) (model.Product, error) {
	var p model.Product
	err := r.scoped(r.base(ctx), scope, clientID).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, scope repo.Scope, clientID string, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	err := r.scoped(r.base(ctx), scope, clientID).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) ListByProductType(ctx context.Context, clientID string, productType *model.ProductType) ([]model.Product, error) {
	tx := r.base(ctx).Where("client_id = ?", clientID)
	if productType != nil {
		tx = tx.Where("product_type = ?", *productType)
	}

	var products []model.Product
	if err := tx.Order("created_at desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) Search(ctx context.Context, clientID string, query string, limit int) ([]model.Product, error) {
	if query == "" {
		return []model.Product{}, nil
	}

	like := "%" + query + "%"
	var products []model.Product
	err := r.base(ctx).
		Where("client_id = ?", clientID).
		Where("title ILIKE ? OR description ILIKE ?", like, like).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) UpdateFields(ctx context.Context, clientID string, id string, fields map[string]interface{}) error {
	updates, err := jsonbUpdates(fields)
	if err != nil {
		return err
	}

	res := r.base(ctx).
		Where("client_id = ? AND id = ?", clientID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ReplaceVariants はid+lock_versionの両方に一致した行だけ差し替える。
// 一致0件＝他の書き込みが先行したのでWriteConflictを返す。
func (r *ProductGormRepository) ReplaceVariants(ctx context.Context, id string, lockVersion int64, variants []model.ProductVariant) (repo.WriteOutcome, error) {
	payload, err := json.Marshal(variants)
	if err != nil {
		return repo.WriteApplied, err
	}

	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND lock_version = ? AND is_deleted = ?", id, lockVersion, false).
		Updates(map[string]interface{}{
			"variants":     gorm.Expr("?::jsonb", string(payload)),
			"lock_version": gorm.Expr("lock_version + 1"),
		})
	if res.Error != nil {
		return repo.WriteApplied, res.Error
	}
	if res.RowsAffected == 0 {
		return repo.WriteConflict, nil
	}
	return repo.WriteApplied, nil
}

func (r *ProductGormRepository) ReplaceOptions(ctx context.Context, clientID string, id string, options []model.VariantOption) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return err
	}

	res := r.base(ctx).
		Where("client_id = ? AND id = ?", clientID, id).
		Update("options", gorm.Expr("?::jsonb", string(payload)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) ReplaceReviews(ctx context.Context, id string, reviews []model.ProductReview, averageRating float64, reviewCount int) error {
	payload, err := json.Marshal(reviews)
	if err != nil {
		return err
	}

	res := r.base(ctx).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reviews":        gorm.Expr("?::jsonb", string(payload)),
			"average_rating": averageRating,
			"review_count":   reviewCount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) UpdateMedia(ctx context.Context, clientID string, id string, imgUrls []string) error {
	payload, err := json.Marshal(imgUrls)
	if err != nil {
		return err
	}

	res := r.base(ctx).
		Where("client_id = ? AND id = ?", clientID, id).
		Update("img_urls", gorm.Expr("?::jsonb", string(payload)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 物理削除はしない。フラグと時刻だけ立てる。
func (r *ProductGormRepository) SoftDelete(ctx context.Context, clientID string, id string) error {
	res := r.base(ctx).
		Where("client_id = ? AND id = ?", clientID, id).
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
