package catalog

import "github.com/pkg/errors"

var (
	ErrNotFound     = errors.New("product not found")
	ErrDuplicateSku = errors.New("sku already exists")
)

// ValidationError marks a missing or malformed client-supplied field. It is
// distinguishable from ErrDuplicateSku so handlers can word the two 400
// responses differently.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
