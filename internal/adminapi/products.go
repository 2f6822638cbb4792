// Package adminapi binds the catalog and auth components to their HTTP
// surface. Read routes are open; mutating routes sit behind the admin gate.
package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stationeryhq/stationery-server/internal/assets"
	"github.com/stationeryhq/stationery-server/internal/auth"
	"github.com/stationeryhq/stationery-server/internal/catalog"
)

// uploadField is the multipart field name carrying the product image.
const uploadField = "productImage"

type Handler struct {
	creds   *auth.Credentials
	tokens  *auth.TokenIssuer
	catalog *catalog.Service
	assets  *assets.Store
}

func New(creds *auth.Credentials, tokens *auth.TokenIssuer, svc *catalog.Service, store *assets.Store) *Handler {
	return &Handler{creds: creds, tokens: tokens, catalog: svc, assets: store}
}

// Register attaches all routes. The gate middleware is applied to mutating
// catalog routes only; reads and the two auth endpoints stay open.
func (h *Handler) Register(e *echo.Echo, gate ...echo.MiddlewareFunc) {
	api := e.Group("/api")

	api.POST("/admin/register", h.registerAdmin)
	api.POST("/admin/login", h.login)

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.POST("/products", h.createProduct, gate...)
	api.PUT("/products/:id", h.updateProduct, gate...)
	api.DELETE("/products/:id", h.deleteProduct, gate...)
}

func (h *Handler) createProduct(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product form")
	}

	uploadPath, err := h.saveUpload(c)
	if err != nil {
		return uploadError(c, err)
	}

	in := catalog.CreateInput{
		Fields:     fieldsFrom(params),
		UploadPath: uploadPath,
	}
	if ext := formField(params, "externalImageUrl"); ext != nil {
		in.ExternalImageURL = *ext
	}

	p, err := h.catalog.Create(c.Request().Context(), in)
	if err != nil {
		return productError(c, err, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) listProducts(c echo.Context) error {
	products, err := h.catalog.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	p, err := h.catalog.Get(c.Request().Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "Product not found")
	case err != nil:
		zap.L().Error("failed to fetch product", zap.Int64("id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}

	params, err := c.FormParams()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product form")
	}

	uploadPath, err := h.saveUpload(c)
	if err != nil {
		return uploadError(c, err)
	}

	in := catalog.UpdateInput{
		Fields:           fieldsFrom(params),
		UploadPath:       uploadPath,
		ExternalImageURL: formField(params, "externalImageUrl"),
	}
	if clear := formField(params, "clearCurrentImage"); clear != nil && *clear == "true" {
		in.ClearImage = true
	}

	p, err := h.catalog.Update(c.Request().Context(), id, in)
	if err != nil {
		return productError(c, err, "Failed to update product")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	err := h.catalog.Remove(c.Request().Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "Product not found")
	case err != nil:
		zap.L().Error("failed to delete product", zap.Int64("id", id), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// saveUpload stores the optional product image; an absent file field is not
// an error.
func (h *Handler) saveUpload(c echo.Context) (string, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil || fh == nil {
		return "", nil
	}
	return h.assets.Save(uploadField, fh)
}

func uploadError(c echo.Context, err error) error {
	if errors.Is(err, assets.ErrUnsupportedType) || errors.Is(err, assets.ErrFileTooLarge) {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	zap.L().Error("failed to store upload", zap.Error(err))
	return fail(c, http.StatusInternalServerError, "Failed to store uploaded file")
}

func productError(c echo.Context, err error, fallback string) error {
	var ve catalog.ValidationError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, catalog.ErrDuplicateSku):
		return fail(c, http.StatusBadRequest, "SKU already exists.")
	case errors.As(err, &ve):
		return fail(c, http.StatusBadRequest, ve.Error())
	default:
		zap.L().Error(fallback, zap.Error(err))
		return fail(c, http.StatusInternalServerError, fallback)
	}
}
