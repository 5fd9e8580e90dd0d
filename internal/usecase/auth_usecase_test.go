package usecase

import (
	"context"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type AuthUserRepoMock struct{ mock.Mock }

func (m *AuthUserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *AuthUserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) FindByClientID(ctx context.Context, clientID string) (model.User, error) {
	panic("not used in AuthUsecase tests")
}

func (m *AuthUserRepoMock) UpdateFields(ctx context.Context, clientID string, fields map[string]interface{}) error {
	args := m.Called(ctx, clientID, fields)
	return args.Error(0)
}

func newAuthUsecaseForTest(users *AuthUserRepoMock) *AuthUsecase {
	return NewAuthUsecase(config.Config{JWTSecret: "test-secret"}, users)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()

	users := new(AuthUserRepoMock)
	uc := newAuthUsecaseForTest(users)

	users.On("FindByEmail", mock.Anything, "nimal@example.com").
		Return(model.User{}, repo.ErrNotFound)

	var created *model.User
	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).
		Return(nil)

	out, err := uc.Register(ctx, RegisterInput{
		Email:    "Nimal@Example.com",
		Password: "password123",
		Name:     "Nimal",
		Role:     "SELLER",
	})
	assert.NoError(t, err)

	//メールは小文字化される
	assert.Equal(t, "nimal@example.com", out.Email)
	assert.Equal(t, "SELLER", out.Role)
	assert.NotEmpty(t, out.ClientID)

	//平文は保存されない
	assert.NotEqual(t, "password123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	users := new(AuthUserRepoMock)
	uc := newAuthUsecaseForTest(users)

	users.On("FindByEmail", mock.Anything, "nimal@example.com").
		Return(model.User{Email: "nimal@example.com"}, nil)

	_, err := uc.Register(context.Background(), RegisterInput{
		Email:    "nimal@example.com",
		Password: "password123",
	})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 409, he.Status)
}

func TestAuthUsecase_Register_Validation(t *testing.T) {
	uc := newAuthUsecaseForTest(new(AuthUserRepoMock))

	_, err := uc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "password123"})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 400, he.Status)

	_, err = uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	he, _ = AsHTTPError(err)
	assert.Equal(t, 400, he.Status)

	//ADMINは登録APIからは作れない
	_, err = uc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "password123", Role: "ADMIN"})
	he, _ = AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	users := new(AuthUserRepoMock)
	uc := newAuthUsecaseForTest(users)

	users.On("FindByEmail", mock.Anything, "nimal@example.com").
		Return(model.User{
			Base:         model.Base{ClientID: "client-1"},
			Email:        "nimal@example.com",
			PasswordHash: string(hash),
			Role:         model.RoleSeller,
			IsActive:     true,
		}, nil)
	users.On("UpdateFields", mock.Anything, "client-1", mock.Anything).Return(nil)

	out, err := uc.Login(ctx, LoginInput{Email: "nimal@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	//subにはclientIDが入る
	token, err := jwt.Parse(out.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "client-1", claims["sub"])
	assert.Equal(t, "SELLER", claims["role"])
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	users := new(AuthUserRepoMock)
	uc := newAuthUsecaseForTest(users)

	users.On("FindByEmail", mock.Anything, "nimal@example.com").
		Return(model.User{PasswordHash: string(hash), IsActive: true}, nil)

	_, err := uc.Login(context.Background(), LoginInput{Email: "nimal@example.com", Password: "wrong"})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 401, he.Status)
}

func TestAuthUsecase_Login_DeactivatedAccount(t *testing.T) {
	users := new(AuthUserRepoMock)
	uc := newAuthUsecaseForTest(users)

	users.On("FindByEmail", mock.Anything, "nimal@example.com").
		Return(model.User{IsActive: false}, nil)

	_, err := uc.Login(context.Background(), LoginInput{Email: "nimal@example.com", Password: "password123"})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 401, he.Status)
}
