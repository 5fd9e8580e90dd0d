package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type UserUsecase struct {
	users repo.UserRepository
}

func NewUserUsecase(users repo.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type UpdateProfileInput struct {
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

type UpdateSellerProfileInput struct {
	ShopName        *string `json:"shop_name"`
	ShopDescription *string `json:"shop_description"`
}

func (u *UserUsecase) GetByClientID(ctx context.Context, clientID string) (model.User, error) {
	user, err := u.users.FindByClientID(ctx, clientID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *UserUsecase) GetByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *UserUsecase) UpdateProfile(ctx context.Context, clientID string, in UpdateProfileInput) error {
	fields := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return NewHTTPError(http.StatusBadRequest, "name required")
		}
		fields["name"] = *in.Name
	}
	if in.ProfilePicture != nil {
		fields["profile_picture"] = *in.ProfilePicture
	}
	if len(fields) == 0 {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}
	return u.updateFields(ctx, clientID, fields)
}

// 出品者プロフィール。SELLERロール以外は更新不可。
func (u *UserUsecase) UpdateSellerProfile(ctx context.Context, clientID string, in UpdateSellerProfileInput) error {
	user, err := u.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}
	if user.Role != model.RoleSeller {
		return NewHTTPError(http.StatusForbidden, "seller role required")
	}

	fields := map[string]interface{}{}
	if in.ShopName != nil {
		fields["shop_name"] = *in.ShopName
	}
	if in.ShopDescription != nil {
		fields["shop_description"] = *in.ShopDescription
	}
	if len(fields) == 0 {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}
	return u.updateFields(ctx, clientID, fields)
}

// ロール変更（ADMIN操作）。
func (u *UserUsecase) UpdateRole(ctx context.Context, clientID string, role string) error {
	switch model.Role(role) {
	case model.RoleUser, model.RoleSeller, model.RoleAdmin:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	return u.updateFields(ctx, clientID, map[string]interface{}{"role": role})
}

// 出品者の検証済みフラグを立てる（ADMIN操作）。
func (u *UserUsecase) VerifySeller(ctx context.Context, clientID string) error {
	user, err := u.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}
	if user.Role != model.RoleSeller {
		return NewHTTPError(http.StatusBadRequest, "user is not a seller")
	}
	return u.updateFields(ctx, clientID, map[string]interface{}{"is_verified_seller": true})
}

func (u *UserUsecase) Deactivate(ctx context.Context, clientID string) error {
	return u.updateFields(ctx, clientID, map[string]interface{}{"is_active": false})
}

func (u *UserUsecase) updateFields(ctx context.Context, clientID string, fields map[string]interface{}) error {
	err := u.users.UpdateFields(ctx, clientID, fields)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
