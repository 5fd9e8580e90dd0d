package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	products repo.ProductRepository
	tags     *TagUsecase
	uploader MediaUploader
}

// DI
func NewProductUsecase(
	products repo.ProductRepository,
	tags *TagUsecase,
	uploader MediaUploader,
) *ProductUsecase {
	return &ProductUsecase{
		products: products,
		tags:     tags,
		uploader: uploader,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type CreateProductInput struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	ProductType string                 `json:"product_type"`
	Images      []string               `json:"images"`
	Options     []model.VariantOption  `json:"options"`
	Variants    []model.ProductVariant `json:"variants"`
	Tags        []string               `json:"tags"`

	//Optionsからバリアントを生成するときの初期値
	BaseSKU      string          `json:"base_sku"`
	BasePrice    decimal.Decimal `json:"base_price"`
	BaseQuantity int             `json:"base_quantity"`
}

type UpdateProductInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ProductType *string `json:"product_type"`
}

type AddReviewInput struct {
	ReviewerID   string   `json:"reviewer_id"`
	ReviewerName string   `json:"reviewer_name"`
	Rating       int      `json:"rating"`
	Comment      string   `json:"comment"`
	ImgUrls      []string `json:"img_urls"`
}

func (u *ProductUsecase) List(ctx context.Context, clientID string, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "query too long")
	}

	items, total, err := u.products.List(ctx, clientID, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, clientID string, id string) (model.Product, error) {
	p, err := u.products.FindByID(ctx, repo.ScopeOwned, clientID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// GetDetails は商品を所有者に関係なく引く（商品ページ向け）。
func (u *ProductUsecase) GetDetails(ctx context.Context, id string) (model.Product, error) {
	p, err := u.products.FindByID(ctx, repo.ScopeAny, "", id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 削除済みを除いたレビュー一覧。
func (u *ProductUsecase) ListReviews(ctx context.Context, id string) ([]model.ProductReview, error) {
	p, err := u.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews := make([]model.ProductReview, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.IsDeleted {
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func (u *ProductUsecase) ListByProductType(ctx context.Context, clientID string, productType string) ([]model.Product, error) {
	pt := model.ProductType(productType)
	switch pt {
	case model.ProductTypePhysical, model.ProductTypeDigital:
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product type")
	}

	items, err := u.products.ListByProductType(ctx, clientID, &pt)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ProductUsecase) Search(ctx context.Context, clientID string, query string) ([]model.Product, error) {
	items, err := u.products.Search(ctx, clientID, strings.TrimSpace(query), 20)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Create は商品を登録する。
// Variants未指定でOptionsがあれば直積からバリアントを生成する。
// どちらも無い場合は単一のデフォルトバリアントを持たせる。
func (u *ProductUsecase) Create(ctx context.Context, clientID string, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "title required")
	}
	productType := model.ProductType(in.ProductType)
	if productType == "" {
		productType = model.ProductTypePhysical
	}
	switch productType {
	case model.ProductTypePhysical, model.ProductTypeDigital:
	default:
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product type")
	}

	variants := in.Variants
	if len(variants) == 0 {
		if len(in.Options) > 0 {
			variants = GenerateVariants(in.Options, in.BaseSKU, in.BasePrice, in.BaseQuantity)
		} else {
			variants = []model.ProductVariant{{
				VariantID:         1,
				SKU:               in.BaseSKU,
				Name:              "Default",
				Price:             in.BasePrice,
				AvailableQuantity: in.BaseQuantity,
				IsActive:          true,
			}}
		}
	}
	for i := range variants {
		if variants[i].VariantID == 0 {
			variants[i].VariantID = i + 1
		}
		if variants[i].AvailableQuantity < 0 || variants[i].CommittedQuantity < 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "negative quantity")
		}
	}

	imgUrls, err := u.uploader.Upload(ctx, in.Images)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "media upload failed")
	}

	tagNames := make([]string, 0, len(in.Tags))
	for _, name := range in.Tags {
		tag, err := u.tags.AddOrUpdate(ctx, clientID, name, model.TagKindProduct)
		if err != nil {
			return model.Product{}, err
		}
		tagNames = append(tagNames, tag.Name)
	}

	now := time.Now()
	p := model.Product{
		Base: model.Base{
			ID:        uuid.NewString(),
			ClientID:  clientID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       in.Title,
		Description: in.Description,
		ProductType: productType,
		ImgUrls:     imgUrls,
		Variants:    variants,
		Options:     in.Options,
		Tags:        tagNames,
		Reviews:     []model.ProductReview{},
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ProductUsecase) Update(ctx context.Context, clientID string, id string, in UpdateProductInput) error {
	fields := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return NewHTTPError(http.StatusBadRequest, "title required")
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ProductType != nil {
		switch model.ProductType(*in.ProductType) {
		case model.ProductTypePhysical, model.ProductTypeDigital:
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid product type")
		}
		fields["product_type"] = *in.ProductType
	}
	if len(fields) == 0 {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	err := u.products.UpdateFields(ctx, clientID, id, fields)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ReplaceVariants はバリアントリストを丸ごと差し替える。
// 読み出し時点のバージョンと一致しなければ409（他所で更新済み）。
func (u *ProductUsecase) ReplaceVariants(ctx context.Context, clientID string, id string, variants []model.ProductVariant) error {
	if len(variants) == 0 {
		return NewHTTPError(http.StatusBadRequest, "variants required")
	}
	for i := range variants {
		if variants[i].VariantID == 0 {
			variants[i].VariantID = i + 1
		}
		if variants[i].AvailableQuantity < 0 || variants[i].CommittedQuantity < 0 {
			return NewHTTPError(http.StatusBadRequest, "negative quantity")
		}
	}

	p, err := u.GetByID(ctx, clientID, id)
	if err != nil {
		return err
	}

	outcome, err := u.products.ReplaceVariants(ctx, p.ID, p.LockVersion, variants)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if outcome == repo.WriteConflict {
		return NewHTTPError(http.StatusConflict, "product was modified by another process")
	}
	return nil
}

func (u *ProductUsecase) ReplaceOptions(ctx context.Context, clientID string, id string, options []model.VariantOption) error {
	p, err := u.GetByID(ctx, clientID, id)
	if err != nil {
		return err
	}

	if err := u.products.ReplaceOptions(ctx, clientID, p.ID, options); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) UpdateMedia(ctx context.Context, clientID string, id string, images []string, keepUrls []string) error {
	p, err := u.GetByID(ctx, clientID, id)
	if err != nil {
		return err
	}

	uploaded, err := u.uploader.Upload(ctx, images)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "media upload failed")
	}

	if err := u.products.UpdateMedia(ctx, clientID, p.ID, append(keepUrls, uploaded...)); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) AddTags(ctx context.Context, clientID string, id string, tagNames []string) error {
	p, err := u.GetByID(ctx, clientID, id)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := u.tags.AddOrUpdate(ctx, clientID, name, model.TagKindProduct)
		if err != nil {
			return err
		}
		names = append(names, tag.Name)
	}

	err = u.products.UpdateFields(ctx, clientID, p.ID, map[string]interface{}{"tags": names})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// AddReview はレビューを追記して評価サマリを再計算する。
// レビューは公開商品への書き込みなのでテナント横断で引く。
func (u *ProductUsecase) AddReview(ctx context.Context, id string, in AddReviewInput) (model.Product, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	p, err := u.products.FindByID(ctx, repo.ScopeAny, "", id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Reviews = append(p.Reviews, model.ProductReview{
		ID:           uuid.NewString(),
		ReviewerID:   in.ReviewerID,
		ReviewerName: in.ReviewerName,
		Rating:       in.Rating,
		Comment:      in.Comment,
		ImgUrls:      in.ImgUrls,
		CreatedAt:    time.Now(),
	})
	p.UpdateRatingStats()

	if err := u.products.ReplaceReviews(ctx, p.ID, p.Reviews, p.AverageRating, p.ReviewCount); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 論理削除（フラグ＋時刻）。
func (u *ProductUsecase) Delete(ctx context.Context, clientID string, id string) error {
	err := u.products.SoftDelete(ctx, clientID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
