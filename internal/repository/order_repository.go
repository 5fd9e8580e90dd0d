package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文の永続化だけを約束。
// 注文は作成・編集中のリクエストが占有する前提なので楽観ロックは持たない。
type OrderRepository interface {
	Insert(ctx context.Context, o model.Order) error

	FindByID(ctx context.Context, id string) (model.Order, error)

	//新しい順
	List(ctx context.Context, clientID string, limit int) ([]model.Order, error)

	ListByFulfillmentStatus(ctx context.Context, clientID string, status string, limit int) ([]model.Order, error)

	//明細に指定出品者を含む注文（テナント横断）
	ListBySellerID(ctx context.Context, sellerID string) ([]model.Order, error)

	//注文番号・宛名のILIKE検索
	Search(ctx context.Context, clientID string, query string, limit int) ([]model.Order, error)

	ReplaceLineItems(ctx context.Context, id string, items []model.LineItem) error

	//ステータス・金額などの部分更新
	SetFields(ctx context.Context, id string, fields map[string]interface{}) error

	//タイムラインへ1件追記（JSONB連結）
	AppendTimeline(ctx context.Context, id string, entry model.TimeLineDetails) error

	SetCancelled(ctx context.Context, id string) error

	SoftDelete(ctx context.Context, id string) error
}
