package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

// DI
func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/users")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/me", h.me)
	g.PATCH("/me", h.updateProfile)
	g.PATCH("/me/seller-profile", h.updateSellerProfile)
	g.POST("/me/deactivate", h.deactivate)

	//管理者のみ
	admin := g.Group("", middleware.RoleGuard("ADMIN"))
	admin.GET("/by-email", h.getByEmail)
	admin.PATCH("/:clientID/role", h.updateRole)
	admin.POST("/:clientID/verify-seller", h.verifySeller)
}

func (h *UserHandler) me(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetByClientID(c.Request().Context(), clientID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) updateProfile(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateProfile(c.Request().Context(), clientID, req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) updateSellerProfile(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateSellerProfileInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateSellerProfile(c.Request().Context(), clientID, req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) deactivate(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Deactivate(c.Request().Context(), clientID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) getByEmail(c echo.Context) error {
	out, err := h.uc.GetByEmail(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) updateRole(c echo.Context) error {
	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateRole(c.Request().Context(), c.Param("clientID"), req.Role); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) verifySeller(c echo.Context) error {
	if err := h.uc.VerifySeller(c.Request().Context(), c.Param("clientID")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
