package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TagHandler struct {
	uc *usecase.TagUsecase
}

// DI
func NewTagHandler(uc *usecase.TagUsecase) *TagHandler {
	return &TagHandler{uc: uc}
}

func (h *TagHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/tags")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/find", h.get)
	g.GET("/kind/:kind", h.listByKind)
	g.POST("", h.addOrUpdate)
	g.DELETE("/:id", h.delete)
}

func (h *TagHandler) list(c echo.Context) error {
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

func (h *TagHandler) get(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Get(c.Request().Context(), clientID, c.QueryParam("name"), c.QueryParam("kind"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TagHandler) listByKind(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListByKind(c.Request().Context(), clientID, c.Param("kind"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type AddTagRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (h *TagHandler) addOrUpdate(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddOrUpdate(c.Request().Context(), clientID, req.Name, req.Kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TagHandler) delete(c echo.Context) error {
	clientID, ok := getClientIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), clientID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
