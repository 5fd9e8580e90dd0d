package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type TagGormRepository struct {
	db *gorm.DB
}

// DI
func NewTagGormRepository(db *gorm.DB) *TagGormRepository {
	return &TagGormRepository{db: db}
}

func (r *TagGormRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Tag{}).Where("is_deleted = ?", false)
}

func (r *TagGormRepository) FindByNameAndKind(ctx context.Context, clientID string, name string, kind string) (model.Tag, error) {
	var t model.Tag
	err := r.base(ctx).
		Where("client_id = ? AND name = ? AND kind = ?", clientID, name, kind).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tag{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

func (r *TagGormRepository) Create(ctx context.Context, t model.Tag) (model.Tag, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

// 既存タグのUpdatedAtだけ進める。
func (r *TagGormRepository) Touch(ctx context.Context, id string) error {
	res := r.base(ctx).Where("id = ?", id).Update("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TagGormRepository) ListByClient(ctx context.Context, clientID string) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.base(ctx).
		Where("client_id = ?", clientID).
		Order("updated_at desc").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagGormRepository) ListByKind(ctx context.Context, clientID string, kind string) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.base(ctx).
		Where("client_id = ? AND kind = ?", clientID, kind).
		Order("updated_at desc").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *TagGormRepository) Delete(ctx context.Context, clientID string, id string) error {
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
