package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 所有フィルタの適用範囲。呼び出し側が意図を明示する。
type Scope int

const (
	//ScopeOwnedはclient_idで絞る（通常のテナントスコープ）。
	ScopeOwned Scope = iota

	//ScopeAnyはテナント横断で引く。注文処理は明細ごとに出品者が違うため
	//このスコープでしか商品を解決できない。
	ScopeAny
)

// 条件付き更新の結果。boolではなく型で返し、呼び出し側にWriteConflictの
// 処理を強制する。
type WriteOutcome int

const (
	WriteApplied WriteOutcome = iota

	//一致0件＝他の書き込みが先行した。呼び出し側が再取得してやり直す。
	WriteConflict
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// 商品の永続化だけを約束。
type ProductRepository interface {
	List(ctx context.Context, clientID string, q ProductListQuery) ([]model.Product, int64, error)

	//scope=ScopeAnyのときclientIDは無視される
	FindByID(ctx context.Context, scope Scope, clientID string, id string) (model.Product, error)

	//ID集合で一括取得。削除済みは返さない。
	FindByIDs(ctx context.Context, scope Scope, clientID string, ids []string) ([]model.Product, error)

	ListByProductType(ctx context.Context, clientID string, productType *model.ProductType) ([]model.Product, error)

	Search(ctx context.Context, clientID string, query string, limit int) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	//タイトル・説明などスカラー項目の部分更新
	UpdateFields(ctx context.Context, clientID string, id string, fields map[string]interface{}) error

	//バリアント一覧の条件付き差し替え。id+lockVersionに一致した時だけ適用し
	//lock_versionを+1する。一致0件はWriteConflict。
	ReplaceVariants(ctx context.Context, id string, lockVersion int64, variants []model.ProductVariant) (WriteOutcome, error)

	ReplaceOptions(ctx context.Context, clientID string, id string, options []model.VariantOption) error

	//レビュー一覧と集計をまとめて差し替える
	ReplaceReviews(ctx context.Context, id string, reviews []model.ProductReview, averageRating float64, reviewCount int) error

	UpdateMedia(ctx context.Context, clientID string, id string, imgUrls []string) error

	SoftDelete(ctx context.Context, clientID string, id string) error
}
