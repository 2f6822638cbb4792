package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/stationeryhq/stationery-server/internal/domain"
)

// ProductRepository is the persistence contract for catalog records.
type ProductRepository interface {
	// Insert persists a new product. A sku collision surfaces as
	// ErrDuplicateSku.
	Insert(ctx context.Context, p *domain.Product) error

	// FindByID retrieves a product or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// FindAll retrieves products, optionally filtered by category matched
	// case-insensitively as a substring against the stored value.
	FindAll(ctx context.Context, category string) ([]domain.Product, error)

	// Update writes back all fields of an existing product. A sku collision
	// surfaces as ErrDuplicateSku.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product record or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// GormProductRepository is the GORM implementation of ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, category string) ([]domain.Product, error) {
	db := r.db.WithContext(ctx).Model(&domain.Product{})
	if category = strings.TrimSpace(category); category != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("category ILIKE ?", "%"+category+"%")
		} else {
			db = db.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(category)+"%")
		}
	}

	var products []domain.Product
	if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return products, nil
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps driver-level errors onto the repository's own taxonomy.
// Requires the gorm session to be opened with TranslateError enabled.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateSku
	default:
		return err
	}
}
