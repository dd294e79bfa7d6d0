package handler

import (
	"net/http"
	"strconv"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500。内部の事情は返さない
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/products", middleware.ResolveSourceWeb())
	g.GET("", h.list)
	g.GET("/:slug", h.detail)
}

func (h *ProductHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/products", h.create)
	g.PATCH("/products/:id", h.update)
	g.DELETE("/products/:id", h.delete)
}

func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.GetProductsInput{
		Source:     middleware.SourceWebFrom(c),
		CategoryID: c.QueryParam("categoryId"),
		Status:     model.Status(c.QueryParam("status")),
		OrderBy:    c.QueryParam("orderBy"),
		Cursor:     c.QueryParam("cursor"),
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		in.Page = p
	}

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}

	if v := c.QueryParam("min"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min"})
		}
		in.PriceMin = &x
	}

	if v := c.QueryParam("max"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max"})
		}
		in.PriceMax = &x
	}

	out, err := h.uc.GetProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

type createProductRequest struct {
	Name       string   `json:"name" validate:"required"`
	Price      int64    `json:"price" validate:"gte=0"`
	CategoryID string   `json:"categoryId" validate:"required,uuid"`
	ImageIDs   []string `json:"imageIds" validate:"required,min=1,dive,uuid"`
}

func (h *ProductHandler) create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		ImageIDs:   req.ImageIDs,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

type updateProductRequest struct {
	Name       *string  `json:"name"`
	Price      *int64   `json:"price"`
	CategoryID *string  `json:"categoryId"`
	ImageIDs   []string `json:"imageIds" validate:"omitempty,dive,uuid"`
}

func (h *ProductHandler) update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("id"), usecase.UpdateProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		ImageIDs:   req.ImageIDs,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}
