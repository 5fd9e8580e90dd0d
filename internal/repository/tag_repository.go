package repository

import (
	"context"

	"app/internal/domain/model"
)

type TagRepository interface {
	FindByNameAndKind(ctx context.Context, clientID string, name string, kind string) (model.Tag, error)
	Create(ctx context.Context, t model.Tag) (model.Tag, error)

	//既存タグのUpdatedAtだけ進める
	Touch(ctx context.Context, id string) error

	ListByClient(ctx context.Context, clientID string) ([]model.Tag, error)
	ListByKind(ctx context.Context, clientID string, kind string) ([]model.Tag, error)
	Delete(ctx context.Context, clientID string, id string) error
}
