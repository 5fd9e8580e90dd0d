package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

type TagUsecase struct {
	tags repo.TagRepository
}

func NewTagUsecase(tags repo.TagRepository) *TagUsecase {
	return &TagUsecase{tags: tags}
}

// AddOrUpdate は名前と種別でタグを引き、あれば更新時刻だけ触り、なければ作る。
func (u *TagUsecase) AddOrUpdate(ctx context.Context, clientID string, name string, kind string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, NewHTTPError(http.StatusBadRequest, "tag name required")
	}
	switch kind {
	case model.TagKindProduct, model.TagKindOrder:
	default:
		return model.Tag{}, NewHTTPError(http.StatusBadRequest, "invalid tag kind")
	}

	existing, err := u.tags.FindByNameAndKind(ctx, clientID, name, kind)
	if err == nil {
		if err := u.tags.Touch(ctx, existing.ID); err != nil {
			return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return existing, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	tag := model.Tag{
		Base: model.Base{
			ID:        uuid.NewString(),
			ClientID:  clientID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: name,
		Kind: kind,
	}
	created, err := u.tags.Create(ctx, tag)
	if err != nil {
		return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *TagUsecase) Get(ctx context.Context, clientID string, name string, kind string) (model.Tag, error) {
	tag, err := u.tags.FindByNameAndKind(ctx, clientID, strings.TrimSpace(name), kind)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Tag{}, NewHTTPError(http.StatusNotFound, "tag not found")
	}
	if err != nil {
		return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return tag, nil
}

func (u *TagUsecase) List(ctx context.Context, clientID string) ([]model.Tag, error) {
	tags, err := u.tags.ListByClient(ctx, clientID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return tags, nil
}

func (u *TagUsecase) ListByKind(ctx context.Context, clientID string, kind string) ([]model.Tag, error) {
	switch kind {
	case model.TagKindProduct, model.TagKindOrder:
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid tag kind")
	}

	tags, err := u.tags.ListByKind(ctx, clientID, kind)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return tags, nil
}

func (u *TagUsecase) Delete(ctx context.Context, clientID string, id string) error {
	err := u.tags.Delete(ctx, clientID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "tag not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
