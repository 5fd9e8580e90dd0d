package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/status/:status", h.listByStatus)
	g.GET("/seller", h.listBySeller, middleware.RoleGuard("SELLER", "ADMIN"))
	g.GET("/:id", h.detail)
	g.GET("/:id/sellers", h.groupBySeller)
	g.PUT("/:id/line-items", h.updateLineItems)
	g.PUT("/:id/shipping-address", h.updateShippingAddress)
	g.PUT("/:id/payment", h.updatePaymentInfo)
	g.PUT("/:id/totals", h.updateTotals)
	g.PUT("/:id/fulfillment-status", h.updateFulfillStatus)
	g.POST("/:id/timeline", h.addTimeline)
	g.POST("/:id/tags", h.addTags)
	g.POST("/:id/cancel", h.cancel)
	g.DELETE("/:id", h.delete)
}

func (h *OrderHandler) create(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), clientID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.List(c.Request().Context(), clientID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) search(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Search(c.Request().Context(), clientID, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByStatus(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListByFulfillmentStatus(c.Request().Context(), clientID, c.Param("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 自分が出品者として含まれる注文の一覧。
func (h *OrderHandler) listBySeller(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	onlyMine := c.QueryParam("only_mine") == "true"
	out, err := h.uc.ListBySeller(c.Request().Context(), clientID, onlyMine)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) groupBySeller(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GroupBySeller(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type UpdateLineItemsRequest struct {
	LineItems []model.LineItem `json:"line_items"`
}

func (h *OrderHandler) updateLineItems(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateLineItemsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateLineItems(c.Request().Context(), c.Param("id"), req.LineItems); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) updateShippingAddress(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req model.ShippingAddress
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateShippingAddress(c.Request().Context(), c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) updatePaymentInfo(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req model.PaymentInfo
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdatePaymentInfo(c.Request().Context(), c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type UpdateTotalsRequest struct {
	SubtotalPrice       decimal.Decimal `json:"subtotal_price"`
	TotalLineItemsPrice decimal.Decimal `json:"total_line_items_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	TotalShippingPrice  decimal.Decimal `json:"total_shipping_price"`
	TotalDiscountPrice  decimal.Decimal `json:"total_discount_price"`
}

func (h *OrderHandler) updateTotals(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateTotalsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.UpdateTotals(c.Request().Context(), c.Param("id"),
		req.SubtotalPrice, req.TotalLineItemsPrice, req.TotalPrice, req.TotalShippingPrice, req.TotalDiscountPrice)
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type UpdateFulfillStatusRequest struct {
	FulfillmentStatus string `json:"fulfillment_status"`
}

func (h *OrderHandler) updateFulfillStatus(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateFulfillStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateFulfillStatus(c.Request().Context(), c.Param("id"), req.FulfillmentStatus); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type AddTimelineRequest struct {
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
	ImgUrls []string `json:"img_urls"`
}

func (h *OrderHandler) addTimeline(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddTimelineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AddTimeline(c.Request().Context(), c.Param("id"), req.Comment, req.Images, req.ImgUrls); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) addTags(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddTagsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AddTags(c.Request().Context(), clientID, c.Param("id"), req.Tags); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.CancelWithoutInventoryReversal(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) delete(c echo.Context) error {
	if _, ok := getClientIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
