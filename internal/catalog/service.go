package catalog

import (
	"context"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/stationeryhq/stationery-server/internal/assets"
	"github.com/stationeryhq/stationery-server/internal/domain"
	"github.com/stationeryhq/stationery-server/pkg/common"
)

// Fields carries the textual form fields of a create or update request.
// A nil pointer means the field was absent from the request, which matters
// for partial updates; an empty string is an explicit value.
type Fields struct {
	Name        *string
	Description *string
	Price       *string
	Quantity    *string
	Category    *string
	Sku         *string
}

// CreateInput describes a product creation. UploadPath, when non-empty, is
// the public path of a file the asset store has already accepted.
type CreateInput struct {
	Fields           Fields
	UploadPath       string
	ExternalImageURL string
}

// UpdateInput describes a partial product update. ExternalImageURL is a
// pointer because mere key presence (even with a blank value) is an
// explicit instruction to replace or clear the image reference.
type UpdateInput struct {
	Fields           Fields
	UploadPath       string
	ExternalImageURL *string
	ClearImage       bool
}

// Service orchestrates catalog operations against the product repository
// and the asset store, including the cleanup policy for image files.
type Service struct {
	repo   ProductRepository
	assets *assets.Store
}

func NewService(repo ProductRepository, store *assets.Store) *Service {
	return &Service{repo: repo, assets: store}
}

// Create validates and persists a new product. Name, price and quantity
// must be present (zero is a valid value). An uploaded file takes priority
// over an external image URL. If persistence fails after a file was
// accepted, the file is deleted so it cannot be orphaned.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p := &domain.Product{
		ID:        common.UUIDint64(),
		ImageUrls: []string{},
	}

	if in.Fields.Name == nil || strings.TrimSpace(*in.Fields.Name) == "" ||
		in.Fields.Price == nil || in.Fields.Quantity == nil {
		s.discardUpload(in.UploadPath)
		return nil, ValidationError("Name, price, and quantity are required.")
	}
	p.Name = strings.TrimSpace(*in.Fields.Name)

	if err := applyNumericFields(p, in.Fields); err != nil {
		s.discardUpload(in.UploadPath)
		return nil, err
	}
	if in.Fields.Description != nil {
		p.Description = strings.TrimSpace(*in.Fields.Description)
	}
	if in.Fields.Category != nil {
		p.Category = strings.TrimSpace(*in.Fields.Category)
	}
	if in.Fields.Sku != nil {
		p.Sku = normalizeSku(*in.Fields.Sku)
	}

	switch {
	case in.UploadPath != "":
		p.ImageUrls = []string{in.UploadPath}
	case strings.TrimSpace(in.ExternalImageURL) != "":
		p.ImageUrls = []string{strings.TrimSpace(in.ExternalImageURL)}
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		s.discardUpload(in.UploadPath)
		return nil, err
	}
	return p, nil
}

// List returns products, optionally filtered by category substring.
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.FindAll(ctx, category)
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. Each field only changes when present in
// the request. The image reference is resolved in priority order: a new
// upload wins, then an explicit clear, then an externalImageUrl key (blank
// clears), otherwise the reference is left unchanged. Filesystem mutations
// happen only after the store write is confirmed: the old local asset is
// deleted on success, the new upload is deleted on failure.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.discardUpload(in.UploadPath)
		return nil, err
	}

	oldLocal := ""
	if len(p.ImageUrls) > 0 && s.assets.IsLocal(p.ImageUrls[0]) {
		oldLocal = p.ImageUrls[0]
	}

	replaced := false
	switch {
	case in.UploadPath != "":
		p.ImageUrls = []string{in.UploadPath}
		replaced = true
	case in.ClearImage:
		p.ImageUrls = []string{}
		replaced = true
	case in.ExternalImageURL != nil:
		if v := strings.TrimSpace(*in.ExternalImageURL); v != "" {
			p.ImageUrls = []string{v}
		} else {
			p.ImageUrls = []string{}
		}
		replaced = true
	}

	if in.Fields.Name != nil {
		if strings.TrimSpace(*in.Fields.Name) == "" {
			s.discardUpload(in.UploadPath)
			return nil, ValidationError("Name cannot be empty.")
		}
		p.Name = strings.TrimSpace(*in.Fields.Name)
	}
	if err := applyNumericFields(p, in.Fields); err != nil {
		s.discardUpload(in.UploadPath)
		return nil, err
	}
	if in.Fields.Description != nil {
		p.Description = strings.TrimSpace(*in.Fields.Description)
	}
	if in.Fields.Category != nil {
		p.Category = strings.TrimSpace(*in.Fields.Category)
	}
	if in.Fields.Sku != nil {
		p.Sku = normalizeSku(*in.Fields.Sku)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.discardUpload(in.UploadPath)
		return nil, err
	}

	// The record no longer references the old file; reclaim it. A concurrent
	// update to the same product can race this read-then-delete, which is an
	// accepted limitation.
	if replaced && oldLocal != "" && oldLocal != in.UploadPath {
		s.assets.Delete(oldLocal)
	}
	return p, nil
}

// Remove deletes a product and best-effort reclaims its local image asset.
func (s *Service) Remove(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if len(p.ImageUrls) > 0 && s.assets.IsLocal(p.ImageUrls[0]) {
		s.assets.Delete(p.ImageUrls[0])
	}
	return nil
}

func (s *Service) discardUpload(publicPath string) {
	if publicPath == "" {
		return
	}
	zap.L().Info("discarding uploaded file after failed operation",
		zap.String("path", publicPath))
	s.assets.Delete(publicPath)
}

// applyNumericFields coerces the textual price and quantity representations
// when present. Coercion failures and negative values are client errors.
func applyNumericFields(p *domain.Product, f Fields) error {
	if f.Price != nil {
		price, err := cast.ToFloat64E(strings.TrimSpace(*f.Price))
		if err != nil || price < 0 {
			return ValidationError("Price must be a non-negative number.")
		}
		p.Price = price
	}
	if f.Quantity != nil {
		qty, err := cast.ToIntE(strings.TrimSpace(*f.Quantity))
		if err != nil || qty < 0 {
			return ValidationError("Quantity must be a non-negative integer.")
		}
		p.Quantity = qty
	}
	return nil
}

// normalizeSku maps a blank sku to NULL so absent skus never collide on the
// unique index.
func normalizeSku(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}
