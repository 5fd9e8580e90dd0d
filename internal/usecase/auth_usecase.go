package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

const bcryptCost = 12

type AuthUsecase struct {
	cfg   config.Config
	users repo.UserRepository
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ClientID string `json:"client_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type LoginOutput struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
	ExpiresIn   int     `json:"expires_in"`
}

// Register はユーザーを登録する。clientIDはここで発行しテナント識別子になる。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	role := model.Role(in.Role)
	if role == "" {
		role = model.RoleUser
	}
	switch role {
	case model.RoleUser, model.RoleSeller:
	default:
		//ADMINは登録APIからは作れない
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	now := time.Now()
	user := model.User{
		Base: model.Base{
			ID:        uuid.NewString(),
			ClientID:  uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, &user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// Login は認証してアクセストークンを返す。subにはclientIDを入れる。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ClientID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	if err := u.users.UpdateFields(ctx, user.ClientID, map[string]interface{}{"last_login_at": now}); err != nil {
		//ログイン自体は成功扱い
		return LoginOutput{
			User:        toUserDTO(user),
			AccessToken: token,
			ExpiresIn:   int(accessTokenTTL.Seconds()),
		}, nil
	}

	return LoginOutput{
		User:        toUserDTO(user),
		AccessToken: token,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
	}, nil
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ClientID: u.ClientID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}
