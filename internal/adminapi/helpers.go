package adminapi

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stationeryhq/stationery-server/internal/catalog"
)

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"message": message})
}

// parseIDParam parses the :id path segment. An unparseable id matches no
// record and is treated as not found.
func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// formField returns a pointer to the first value of a form key, or nil when
// the key is absent from the request. Key presence is what drives the
// partial-update semantics.
func formField(params url.Values, key string) *string {
	if vs, ok := params[key]; ok && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}

// fieldsFrom lifts the known product form keys into the presence-aware
// field set the catalog service consumes.
func fieldsFrom(params url.Values) catalog.Fields {
	return catalog.Fields{
		Name:        formField(params, "name"),
		Description: formField(params, "description"),
		Price:       formField(params, "price"),
		Quantity:    formField(params, "quantity"),
		Category:    formField(params, "category"),
		Sku:         formField(params, "sku"),
	}
}
