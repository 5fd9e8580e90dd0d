package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) List(ctx context.Context, clientID string, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, clientID, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, scope repo.Scope, clientID string, id string) (model.Product, error) {
	args := m.Called(ctx, scope, clientID, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) FindByIDs(ctx context.Context, scope repo.Scope, clientID string, ids []string) ([]model.Product, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdProductRepoMock) ListByProductType(ctx context.Context, clientID string, productType *model.ProductType) ([]model.Product, error) {
	args := m.Called(ctx, clientID, productType)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProdProductRepoMock) Search(ctx context.Context, clientID string, query string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, clientID, query, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) UpdateFields(ctx context.Context, clientID string, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, clientID, id, fields)
	return args.Error(0)
}

func (m *ProdProductRepoMock) ReplaceVariants(ctx context.Context, id string, lockVersion int64, variants []model.ProductVariant) (repo.WriteOutcome, error) {
	args := m.Called(ctx, id, lockVersion, variants)
	return args.Get(0).(repo.WriteOutcome), args.Error(1)
}

func (m *ProdProductRepoMock) ReplaceOptions(ctx context.Context, clientID string, id string, options []model.VariantOption) error {
	args := m.Called(ctx, clientID, id, options)
	return args.Error(0)
}

func (m *ProdProductRepoMock) ReplaceReviews(ctx context.Context, id string, reviews []model.ProductReview, averageRating float64, reviewCount int) error {
	args := m.Called(ctx, id, reviews, averageRating, reviewCount)
	return args.Error(0)
}

func (m *ProdProductRepoMock) UpdateMedia(ctx context.Context, clientID string, id string, imgUrls []string) error {
	args := m.Called(ctx, clientID, id, imgUrls)
	return args.Error(0)
}

func (m *ProdProductRepoMock) SoftDelete(ctx context.Context, clientID string, id string) error {
	args := m.Called(ctx, clientID, id)
	return args.Error(0)
}

type ProdTagRepoMock struct{ mock.Mock }

func (m *ProdTagRepoMock) FindByNameAndKind(ctx context.Context, clientID string, name string, kind string) (model.Tag, error) {
	args := m.Called(ctx, clientID, name, kind)
	tag, _ := args.Get(0).(model.Tag)
	return tag, args.Error(1)
}

func (m *ProdTagRepoMock) Create(ctx context.Context, t model.Tag) (model.Tag, error) {
	args := m.Called(ctx, t)
	created, _ := args.Get(0).(model.Tag)
	return created, args.Error(1)
}

func (m *ProdTagRepoMock) Touch(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProdTagRepoMock) ListByClient(ctx context.Context, clientID string) ([]model.Tag, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdTagRepoMock) ListByKind(ctx context.Context, clientID string, kind string) ([]model.Tag, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdTagRepoMock) Delete(ctx context.Context, clientID string, id string) error {
	panic("not used in ProductUsecase tests")
}

// アップロードは受け取ったものをそのままURL扱いで返す
type ProdUploaderStub struct{}

func (ProdUploaderStub) Upload(ctx context.Context, images []string) ([]string, error) {
	return images, nil
}

func newProductUsecaseForTest(products *ProdProductRepoMock, tags *ProdTagRepoMock) *ProductUsecase {
	return NewProductUsecase(products, NewTagUsecase(tags), ProdUploaderStub{})
}

func TestProductUsecase_List_InvalidPage(t *testing.T) {
	uc := newProductUsecaseForTest(new(ProdProductRepoMock), new(ProdTagRepoMock))

	_, err := uc.List(context.Background(), "client-1", ListProductsInput{Page: 0, Limit: 20})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "invalid page", he.Message)
}

func TestProductUsecase_List_InvalidLimit(t *testing.T) {
	uc := newProductUsecaseForTest(new(ProdProductRepoMock), new(ProdTagRepoMock))

	_, err := uc.List(context.Background(), "client-1", ListProductsInput{Page: 1, Limit: 101})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

// Test: 生成されたバリアントと登録済みタグを持つ商品を作る
func TestProductUsecase_Create_GeneratesVariantsFromOptions(t *testing.T) {
	ctx := context.Background()

	products := new(ProdProductRepoMock)
	tags := new(ProdTagRepoMock)
	uc := newProductUsecaseForTest(products, tags)

	tags.On("FindByNameAndKind", mock.Anything, "client-1", "summer", model.TagKindProduct).
		Return(model.Tag{}, repo.ErrNotFound)
	tags.On("Create", mock.Anything, mock.Anything).
		Return(model.Tag{Name: "summer", Kind: model.TagKindProduct}, nil)

	var created model.Product
	products.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(model.Product)
		}).
		Return(model.Product{}, nil)

	_, err := uc.Create(ctx, "client-1", CreateProductInput{
		Title:        "Classic Tee",
		Options:      []model.VariantOption{{Name: "Size", Values: []string{"S", "M", "L"}}},
		BaseSKU:      "TEE",
		BasePrice:    decimal.NewFromInt(1500),
		BaseQuantity: 10,
		Tags:         []string{"summer"},
	})
	assert.NoError(t, err)

	assert.Len(t, created.Variants, 3)
	assert.Equal(t, "TEE-M", created.Variants[1].SKU)
	assert.Equal(t, []string{"summer"}, created.Tags)
	assert.Equal(t, "client-1", created.ClientID)
	assert.NotEmpty(t, created.ID)
}

func TestProductUsecase_Create_RejectsEmptyTitle(t *testing.T) {
	uc := newProductUsecaseForTest(new(ProdProductRepoMock), new(ProdTagRepoMock))

	_, err := uc.Create(context.Background(), "client-1", CreateProductInput{Title: "  "})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

// Test: 楽観ロック競合は409で返す
func TestProductUsecase_ReplaceVariants_Conflict(t *testing.T) {
	ctx := context.Background()

	products := new(ProdProductRepoMock)
	uc := newProductUsecaseForTest(products, new(ProdTagRepoMock))

	products.On("FindByID", mock.Anything, repo.ScopeOwned, "client-1", "p1").
		Return(model.Product{Base: model.Base{ID: "p1"}, LockVersion: 4}, nil)
	products.On("ReplaceVariants", mock.Anything, "p1", int64(4), mock.Anything).
		Return(repo.WriteConflict, nil)

	err := uc.ReplaceVariants(ctx, "client-1", "p1", []model.ProductVariant{
		{VariantID: 1, AvailableQuantity: 5},
	})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestProductUsecase_ReplaceVariants_RejectsNegativeQuantity(t *testing.T) {
	uc := newProductUsecaseForTest(new(ProdProductRepoMock), new(ProdTagRepoMock))

	err := uc.ReplaceVariants(context.Background(), "client-1", "p1", []model.ProductVariant{
		{VariantID: 1, AvailableQuantity: -1},
	})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

// Test: レビュー追記で評価サマリが再計算される
func TestProductUsecase_AddReview_RecalculatesStats(t *testing.T) {
	ctx := context.Background()

	products := new(ProdProductRepoMock)
	uc := newProductUsecaseForTest(products, new(ProdTagRepoMock))

	products.On("FindByID", mock.Anything, repo.ScopeAny, "", "p1").
		Return(model.Product{
			Base: model.Base{ID: "p1"},
			Reviews: []model.ProductReview{
				{ID: "r1", Rating: 5},
				{ID: "r2", Rating: 1, IsDeleted: true},
			},
		}, nil)
	products.On("ReplaceReviews", mock.Anything, "p1", mock.Anything, 4.0, 2).Return(nil)

	out, err := uc.AddReview(ctx, "p1", AddReviewInput{ReviewerName: "Nimal", Rating: 3})
	assert.NoError(t, err)

	//削除済みレビューは集計から除外: (5+3)/2 = 4.0
	assert.Equal(t, 4.0, out.AverageRating)
	assert.Equal(t, 2, out.ReviewCount)
	products.AssertExpectations(t)
}

func TestProductUsecase_AddReview_RejectsInvalidRating(t *testing.T) {
	uc := newProductUsecaseForTest(new(ProdProductRepoMock), new(ProdTagRepoMock))

	_, err := uc.AddReview(context.Background(), "p1", AddReviewInput{Rating: 6})
	he, _ := AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

func TestProductUsecase_GetByID_NotFound(t *testing.T) {
	products := new(ProdProductRepoMock)
	uc := newProductUsecaseForTest(products, new(ProdTagRepoMock))

	products.On("FindByID", mock.Anything, repo.ScopeOwned, "client-1", "missing").
		Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetByID(context.Background(), "client-1", "missing")
	he, _ := AsHTTPError(err)
	assert.Equal(t, 404, he.Status)
}
