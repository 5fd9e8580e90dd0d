package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/inventory"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 画像を永続URLへ変換する外部コラボレータ。URLの中身はこちらでは関知しない。
type MediaUploader interface {
	Upload(ctx context.Context, images []string) ([]string, error)
}

// 注文ライフサイクルイベントの発行先。失敗してもリクエストは失敗させない。
type OrderEventPublisher interface {
	OrderCreated(o model.Order)
	OrderCancelled(orderID string, clientID string)
}

type OrderUsecase struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
	users    repo.UserRepository
	seq      repo.SequenceGenerator
	tags     *TagUsecase
	uploader MediaUploader
	events   OrderEventPublisher
	logger   *slog.Logger
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	products repo.ProductRepository,
	users repo.UserRepository,
	seq repo.SequenceGenerator,
	tags *TagUsecase,
	uploader MediaUploader,
	events OrderEventPublisher,
	logger *slog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		products: products,
		users:    users,
		seq:      seq,
		tags:     tags,
		uploader: uploader,
		events:   events,
		logger:   logger,
	}
}

type CreateOrderInput struct {
	Note                string                `json:"note"`
	Phone               string                `json:"phone"`
	ShippingAddress     model.ShippingAddress `json:"shipping_address"`
	Customer            model.CustomerInfo    `json:"customer"`
	LineItems           []model.LineItem      `json:"line_items"`
	SubtotalPrice       decimal.Decimal       `json:"subtotal_price"`
	TotalLineItemsPrice decimal.Decimal       `json:"total_line_items_price"`
	TotalPrice          decimal.Decimal       `json:"total_price"`
	TotalShippingPrice  decimal.Decimal       `json:"total_shipping_price"`
	TotalDiscountPrice  decimal.Decimal       `json:"total_discount_price"`
}

// 一覧・検索用の要約
type OrderSummary struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	FinancialStatus   string             `json:"financial_status"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	TotalPrice        decimal.Decimal    `json:"total_price"`
	Customer          model.CustomerInfo `json:"customer"`
	IsCancelled       bool               `json:"is_cancelled"`
	CreatedAt         time.Time          `json:"created_at"`
}

// 適用済みの在庫操作の記録。失敗時に逆操作で巻き戻す（補償ログ）。
type appliedStockOp struct {
	product   *model.Product
	variantID int
	qty       int

	//trueならreleaseを適用済み＝補償はreserve
	released bool
}

// Create は注文を作成する。
// 採番 → 商品一括取得（テナント横断） → 明細ごとに出品者スナップショット＋引当 →
// 商品ごとに条件付き保存 → 注文insert → タイムライン追記。
// 途中で失敗したら適用済みの引当を逆操作で戻してからエラーを返す。
func (u *OrderUsecase) Create(ctx context.Context, clientID string, in CreateOrderInput) (model.Order, error) {
	if err := validateLineItems(in.LineItems); err != nil {
		return model.Order{}, err
	}

	name, err := u.generateOrderName(ctx, clientID)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "sequence error")
	}

	now := time.Now()
	order := model.Order{
		Base: model.Base{
			ID:        uuid.NewString(),
			ClientID:  clientID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:                name,
		Note:                in.Note,
		Phone:               in.Phone,
		ShippingAddress:     in.ShippingAddress,
		Customer:            in.Customer,
		LineItems:           in.LineItems,
		SubtotalPrice:       in.SubtotalPrice,
		TotalLineItemsPrice: in.TotalLineItemsPrice,
		TotalPrice:          in.TotalPrice,
		TotalShippingPrice:  in.TotalShippingPrice,
		TotalDiscountPrice:  in.TotalDiscountPrice,
		Tags:                []string{},
		TimeLineDetails:     []model.TimeLineDetails{},
	}

	byID, err := u.loadProducts(ctx, order.LineItems)
	if err != nil {
		return model.Order{}, err
	}

	var applied []appliedStockOp

	for i := range order.LineItems {
		li := &order.LineItems[i]
		if li.FulfillmentStatus == "" {
			li.FulfillmentStatus = model.FulfillmentToFulfill
		}
		if li.FulfillableQuantity == 0 {
			li.FulfillableQuantity = li.Quantity
		}

		product := byID[li.ProductID]
		variant := product.Variant(li.VariantID)
		if variant == nil {
			u.rollbackStockOps(ctx, applied)
			return model.Order{}, NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("variant %d not found in product %s", li.VariantID, product.Title))
		}

		//出品者スナップショット（失敗しても中断しない）
		li.SellerID = product.ClientID
		li.SellerName = u.lookupSellerName(ctx, product.ClientID)

		if err := inventory.ValidateAvailability(*variant, li.Quantity); err != nil {
			u.rollbackStockOps(ctx, applied)
			return model.Order{}, NewHTTPError(http.StatusConflict, err.Error())
		}
		if err := inventory.Reserve(variant, li.Quantity); err != nil {
			u.rollbackStockOps(ctx, applied)
			return model.Order{}, NewHTTPError(http.StatusConflict, err.Error())
		}

		if err := u.persistVariants(ctx, product); err != nil {
			//この明細の引当はまだ永続化されていないのでログには積まない
			u.rollbackStockOps(ctx, applied)
			return model.Order{}, err
		}
		applied = append(applied, appliedStockOp{product: product, variantID: li.VariantID, qty: li.Quantity})
	}

	if err := u.orders.Insert(ctx, order); err != nil {
		u.rollbackStockOps(ctx, applied)
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	entry := model.TimeLineDetails{CreatedAt: time.Now(), Comment: "Order placed successfully"}
	if err := u.orders.AppendTimeline(ctx, order.ID, entry); err != nil {
		u.logger.Error("failed to append order timeline", "order_id", order.ID, "error", err)
	} else {
		order.TimeLineDetails = append(order.TimeLineDetails, entry)
	}

	if u.events != nil {
		u.events.OrderCreated(order)
	}

	return order, nil
}

// UpdateLineItems は明細リストを差し替える。
//  1. tofulfillの明細は出荷確定（committed清算）して状態をfulfilledへ
//  2. 新リストを保存し、注文全体の状態を導出して保存
//  3. 旧リストとの三方向突き合わせで在庫を調整（削除=戻し / 追加=引当 / 増減=差分）
func (u *OrderUsecase) UpdateLineItems(ctx context.Context, id string, newItems []model.LineItem) error {
	if err := validateLineItems(newItems); err != nil {
		return err
	}
	for _, li := range newItems {
		switch li.FulfillmentStatus {
		case "", model.FulfillmentToFulfill, model.FulfillmentFulfilled:
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid fulfillment status")
		}
	}

	order, err := u.orders.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//出荷確定対象
	var toFulfill []model.LineItem
	for _, li := range newItems {
		if li.FulfillmentStatus == model.FulfillmentToFulfill {
			toFulfill = append(toFulfill, li)
		}
	}

	if len(toFulfill) > 0 {
		byID, err := u.loadProducts(ctx, toFulfill)
		if err != nil {
			return err
		}

		for _, li := range toFulfill {
			product := byID[li.ProductID]
			variant := product.Variant(li.VariantID)
			if variant == nil {
				//存在しないバリアントをfulfilled扱いにしてはいけない
				return NewHTTPError(http.StatusNotFound,
					fmt.Sprintf("variant %d not found in product %s", li.VariantID, product.Title))
			}

			if err := inventory.CommitFulfillment(variant, li.Quantity); err != nil {
				//committedが負になるのは整合性破壊なので致命扱い
				u.logger.Error("committed quantity would go negative",
					"order_id", id, "product_id", li.ProductID, "variant_id", li.VariantID, "error", err)
				return NewHTTPError(http.StatusInternalServerError, "inventory inconsistency detected")
			}
			if err := u.persistVariants(ctx, product); err != nil {
				return err
			}
		}
	}

	for i := range newItems {
		if newItems[i].FulfillmentStatus == model.FulfillmentToFulfill {
			newItems[i].FulfillmentStatus = model.FulfillmentFulfilled
		}
	}

	if err := u.orders.ReplaceLineItems(ctx, id, newItems); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.UpdateFulfillStatus(ctx, id, DeriveFulfillmentStatus(newItems)); err != nil {
		return err
	}

	return u.reconcileInventory(ctx, order.LineItems, newItems)
}

// 旧明細と新明細の三方向突き合わせ。商品は1つ触るたびに保存する。
// 途中失敗は適用済み操作を逆順に巻き戻してから返す。
func (u *OrderUsecase) reconcileInventory(ctx context.Context, oldItems, newItems []model.LineItem) error {
	oldByKey := make(map[model.LineItemKey]model.LineItem, len(oldItems))
	for _, li := range oldItems {
		oldByKey[li.Key()] = li
	}
	newByKey := make(map[model.LineItemKey]model.LineItem, len(newItems))
	for _, li := range newItems {
		newByKey[li.Key()] = li
	}

	all := append(append([]model.LineItem{}, oldItems...), newItems...)
	byID, err := u.loadProducts(ctx, all)
	if err != nil {
		return err
	}

	var applied []appliedStockOp

	resolve := func(li model.LineItem) (*model.Product, *model.ProductVariant, error) {
		product, ok := byID[li.ProductID]
		if !ok {
			return nil, nil, NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("product %s not found", li.ProductID))
		}
		variant := product.Variant(li.VariantID)
		if variant == nil {
			return nil, nil, NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("variant %d not found in product %s", li.VariantID, product.Title))
		}
		return product, variant, nil
	}

	//削除された明細: 全量戻す
	for _, li := range oldItems {
		if _, ok := newByKey[li.Key()]; ok {
			continue
		}
		product, variant, err := resolve(li)
		if err != nil {
			u.rollbackStockOps(ctx, applied)
			return err
		}
		if err := inventory.Release(variant, li.Quantity); err != nil {
			u.logger.Error("failed to release removed line item", "product_id", li.ProductID, "variant_id", li.VariantID, "error", err)
			u.rollbackStockOps(ctx, applied)
			return NewHTTPError(http.StatusInternalServerError, "inventory inconsistency detected")
		}
		if err := u.persistVariants(ctx, product); err != nil {
			u.rollbackStockOps(ctx, applied)
			return err
		}
		applied = append(applied, appliedStockOp{product: product, variantID: li.VariantID, qty: li.Quantity, released: true})
	}

	//追加された明細: 検証して引当
	for _, li := range newItems {
		if _, ok := oldByKey[li.Key()]; ok {
			continue
		}
		product, variant, err := resolve(li)
		if err != nil {
			u.rollbackStockOps(ctx, applied)
			return err
		}
		if err := inventory.Reserve(variant, li.Quantity); err != nil {
			u.rollbackStockOps(ctx, applied)
			return NewHTTPError(http.StatusConflict, err.Error())
		}
		if err := u.persistVariants(ctx, product); err != nil {
			u.rollbackStockOps(ctx, applied)
			return err
		}
		applied = append(applied, appliedStockOp{product: product, variantID: li.VariantID, qty: li.Quantity})
	}

	//数量が変わった明細: 差分だけ引当/戻し
	for _, li := range newItems {
		old, ok := oldByKey[li.Key()]
		if !ok || old.Quantity == li.Quantity {
			continue
		}
		product, variant, err := resolve(li)
		if err != nil {
			u.rollbackStockOps(ctx, applied)
			return err
		}

		delta := li.Quantity - old.Quantity
		if delta > 0 {
			if err := inventory.Reserve(variant, delta); err != nil {
				u.rollbackStockOps(ctx, applied)
				return NewHTTPError(http.StatusConflict, err.Error())
			}
			if err := u.persistVariants(ctx, product); err != nil {
				u.rollbackStockOps(ctx, applied)
				return err
			}
			applied = append(applied, appliedStockOp{product: product, variantID: li.VariantID, qty: delta})
		} else {
			if err := inventory.Release(variant, -delta); err != nil {
				u.logger.Error("failed to release line item delta", "product_id", li.ProductID, "variant_id", li.VariantID, "error", err)
				u.rollbackStockOps(ctx, applied)
				return NewHTTPError(http.StatusInternalServerError, "inventory inconsistency detected")
			}
			if err := u.persistVariants(ctx, product); err != nil {
				u.rollbackStockOps(ctx, applied)
				return err
			}
			applied = append(applied, appliedStockOp{product: product, variantID: li.VariantID, qty: -delta, released: true})
		}
	}

	return nil
}

// 適用済みの在庫操作を逆順に戻す。戻し自体の失敗はログに残すだけ（ベストエフォート）。
func (u *OrderUsecase) rollbackStockOps(ctx context.Context, applied []appliedStockOp) {
	for i := len(applied) - 1; i >= 0; i-- {
		op := applied[i]
		variant := op.product.Variant(op.variantID)
		if variant == nil {
			continue
		}

		var err error
		if op.released {
			err = inventory.Reserve(variant, op.qty)
		} else {
			err = inventory.Release(variant, op.qty)
		}
		if err != nil {
			u.logger.Error("failed to compensate stock operation",
				"product_id", op.product.ID, "variant_id", op.variantID, "qty", op.qty, "error", err)
			continue
		}

		outcome, err := u.products.ReplaceVariants(ctx, op.product.ID, op.product.LockVersion, op.product.Variants)
		if err != nil || outcome == repo.WriteConflict {
			u.logger.Error("failed to persist stock compensation",
				"product_id", op.product.ID, "variant_id", op.variantID, "qty", op.qty, "error", err)
			continue
		}
		op.product.LockVersion++
	}
}

// 商品ごとの条件付き保存。一致0件は競合としてそのまま呼び出し元へ返す。
func (u *OrderUsecase) persistVariants(ctx context.Context, p *model.Product) error {
	outcome, err := u.products.ReplaceVariants(ctx, p.ID, p.LockVersion, p.Variants)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if outcome == repo.WriteConflict {
		return NewHTTPError(http.StatusConflict,
			fmt.Sprintf("stock for product %s was modified by another process", p.Title))
	}
	p.LockVersion++
	return nil
}

// 明細で参照される商品をテナント横断で一括取得する。
// 明細の出品者は注文者と別テナントなのでOwnedスコープでは解決できない。
func (u *OrderUsecase) loadProducts(ctx context.Context, items []model.LineItem) (map[string]*model.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, li := range items {
		if !seen[li.ProductID] {
			seen[li.ProductID] = true
			ids = append(ids, li.ProductID)
		}
	}

	products, err := u.products.FindByIDs(ctx, repo.ScopeAny, "", ids)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(products) != len(ids) {
		found := make(map[string]bool, len(products))
		for _, p := range products {
			found[p.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("products not found: %s", strings.Join(missing, ", ")))
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// 出品者名を引く。失敗しても注文は止めない。
func (u *OrderUsecase) lookupSellerName(ctx context.Context, sellerClientID string) string {
	seller, err := u.users.FindByClientID(ctx, sellerClientID)
	if err != nil || seller.Name == "" {
		return "Unknown Seller"
	}
	return seller.Name
}

// テナントごとの連番から表示用注文番号を採番する。
func (u *OrderUsecase) generateOrderName(ctx context.Context, clientID string) (string, error) {
	n, err := u.seq.NextValue(ctx, "orderid", clientID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%d", n+1000), nil
}

func validateLineItems(items []model.LineItem) error {
	if len(items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "line items required")
	}

	seen := make(map[model.LineItemKey]bool, len(items))
	for _, li := range items {
		if strings.TrimSpace(li.ProductID) == "" {
			return NewHTTPError(http.StatusBadRequest, "product_id required")
		}
		if li.Quantity <= 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if seen[li.Key()] {
			return NewHTTPError(http.StatusBadRequest, "duplicate line item")
		}
		seen[li.Key()] = true
	}
	return nil
}

func (u *OrderUsecase) GetByID(ctx context.Context, id string) (model.Order, error) {
	order, err := u.orders.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return order, nil
}

func (u *OrderUsecase) List(ctx context.Context, clientID string) ([]OrderSummary, error) {
	orders, err := u.orders.List(ctx, clientID, 50)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderSummaries(orders), nil
}

func (u *OrderUsecase) ListByFulfillmentStatus(ctx context.Context, clientID string, status string) ([]OrderSummary, error) {
	orders, err := u.orders.ListByFulfillmentStatus(ctx, clientID, status, 50)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderSummaries(orders), nil
}

func (u *OrderUsecase) Search(ctx context.Context, clientID string, query string) ([]OrderSummary, error) {
	orders, err := u.orders.Search(ctx, clientID, strings.TrimSpace(query), 20)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderSummaries(orders), nil
}

// 指定出品者の明細を含む注文一覧。onlySellerLines=trueなら明細もその出品者分に絞る。
func (u *OrderUsecase) ListBySeller(ctx context.Context, sellerID string, onlySellerLines bool) ([]model.Order, error) {
	orders, err := u.orders.ListBySellerID(ctx, sellerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if onlySellerLines {
		for i := range orders {
			var mine []model.LineItem
			for _, li := range orders[i].LineItems {
				if li.SellerID == sellerID {
					mine = append(mine, li)
				}
			}
			orders[i].LineItems = mine
		}
	}
	return orders, nil
}

// 1注文を出品者単位のサブ注文に分割する。金額はその出品者の明細合計で再計算する。
func (u *OrderUsecase) GroupBySeller(ctx context.Context, orderID string) ([]model.Order, error) {
	order, err := u.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	bySeller := make(map[string][]model.LineItem)
	var sellerOrder []string
	for _, li := range order.LineItems {
		if _, ok := bySeller[li.SellerID]; !ok {
			sellerOrder = append(sellerOrder, li.SellerID)
		}
		bySeller[li.SellerID] = append(bySeller[li.SellerID], li)
	}

	out := make([]model.Order, 0, len(bySeller))
	for _, sellerID := range sellerOrder {
		items := bySeller[sellerID]

		sub := order
		sub.LineItems = items

		subtotal := decimal.Zero
		for _, li := range items {
			subtotal = subtotal.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
		}
		sub.SubtotalPrice = subtotal
		sub.TotalLineItemsPrice = subtotal
		sub.TotalPrice = subtotal.Add(sub.TotalShippingPrice).Sub(sub.TotalDiscountPrice)

		//出品者名を注記に付ける（取れなくても続行）
		sub.Note = strings.TrimSpace(fmt.Sprintf("%s (Seller: %s)", order.Note, u.lookupSellerName(ctx, sellerID)))

		out = append(out, sub)
	}
	return out, nil
}

func (u *OrderUsecase) UpdateShippingAddress(ctx context.Context, id string, addr model.ShippingAddress) error {
	err := u.orders.SetFields(ctx, id, map[string]interface{}{"shipping_address": addr})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 支払い情報を差し替え、支払い状態を導出して保存する。
func (u *OrderUsecase) UpdatePaymentInfo(ctx context.Context, id string, info model.PaymentInfo) error {
	err := u.orders.SetFields(ctx, id, map[string]interface{}{"payment_info": info})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.refreshPaymentStatus(ctx, id)
}

// 金額項目の差し替え。支払い状態も引き直す。
func (u *OrderUsecase) UpdateTotals(ctx context.Context, id string, subtotal, lineItemsTotal, total, shipping, discount decimal.Decimal) error {
	err := u.orders.SetFields(ctx, id, map[string]interface{}{
		"subtotal_price":         subtotal,
		"total_line_items_price": lineItemsTotal,
		"total_price":            total,
		"total_shipping_price":   shipping,
		"total_discount_price":   discount,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.refreshPaymentStatus(ctx, id)
}

// フルフィルメント状態を保存してタイムラインに残す。
func (u *OrderUsecase) UpdateFulfillStatus(ctx context.Context, id string, status string) error {
	err := u.orders.SetFields(ctx, id, map[string]interface{}{"fulfillment_status": status})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	entry := model.TimeLineDetails{
		CreatedAt: time.Now(),
		Comment:   fmt.Sprintf("fulfillment status updated to %s", status),
	}
	if err := u.orders.AppendTimeline(ctx, id, entry); err != nil {
		u.logger.Error("failed to append order timeline", "order_id", id, "error", err)
	}
	return nil
}

// 保存済みの支払い情報から支払い状態を引き直し、タイムラインに残す。
func (u *OrderUsecase) refreshPaymentStatus(ctx context.Context, id string) error {
	order, err := u.orders.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	status := DerivePaymentStatus(order.PaymentInfo.TotalPaidAmount(), order.TotalPrice)
	if err := u.orders.SetFields(ctx, id, map[string]interface{}{"financial_status": status}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	latest := order.PaymentInfo.LatestPayment()
	if latest == nil {
		return nil
	}
	method := latest.PaymentMethod
	if method == "" {
		method = "Unknown"
	}

	entry := model.TimeLineDetails{
		CreatedAt: time.Now(),
		Comment:   fmt.Sprintf("payment status updated %s amount paid %s LKR via %s", status, latest.Amount.String(), method),
	}
	if err := u.orders.AppendTimeline(ctx, id, entry); err != nil {
		u.logger.Error("failed to append order timeline", "order_id", id, "error", err)
	}
	return nil
}

// タイムラインへ1件追記する。imagesはアップロードして永続URLへ変換する。
func (u *OrderUsecase) AddTimeline(ctx context.Context, id string, comment string, images []string, imgUrls []string) error {
	uploaded, err := u.uploader.Upload(ctx, images)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "media upload failed")
	}

	entry := model.TimeLineDetails{
		CreatedAt: time.Now(),
		Comment:   comment,
		ImgUrls:   append(imgUrls, uploaded...),
	}
	if err := u.orders.AppendTimeline(ctx, id, entry); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// タグを登録（既存なら更新）して注文に付け直す。
func (u *OrderUsecase) AddTags(ctx context.Context, clientID string, orderID string, tagNames []string) error {
	names := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := u.tags.AddOrUpdate(ctx, clientID, name, model.TagKindOrder)
		if err != nil {
			return err
		}
		names = append(names, tag.Name)
	}

	err := u.orders.SetFields(ctx, orderID, map[string]interface{}{"tags": names})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// CancelWithoutInventoryReversal はキャンセルフラグを立てるだけで在庫は戻さない。
// 在庫の扱いは運用側の判断に委ねる契約なので、メソッド名でそれを明示している。
func (u *OrderUsecase) CancelWithoutInventoryReversal(ctx context.Context, id string) error {
	order, err := u.orders.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orders.SetCancelled(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.events != nil {
		u.events.OrderCancelled(id, order.ClientID)
	}
	return nil
}

// 論理削除（フラグ＋時刻）。在庫は戻さない。
func (u *OrderUsecase) Delete(ctx context.Context, id string) error {
	err := u.orders.SoftDelete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toOrderSummaries(orders []model.Order) []OrderSummary {
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderSummary{
			ID:                o.ID,
			Name:              o.Name,
			FinancialStatus:   o.FinancialStatus,
			FulfillmentStatus: o.FulfillmentStatus,
			TotalPrice:        o.TotalPrice,
			Customer:          o.Customer,
			IsCancelled:       o.IsCancelled,
			CreatedAt:         o.CreatedAt,
		})
	}
	return out
}
