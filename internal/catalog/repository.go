package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product with images and pricing rule.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("PricingRule").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product by its unique slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("PricingRule").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns the browsable catalog with associations loaded.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("PricingRule").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// ListVariants returns the sibling pack sizes of a base product, the base
// included, ordered by stem count.
func (r *Repository) ListVariants(ctx context.Context, baseProductID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? OR base_product_id = ?", baseProductID, baseProductID).
		Where("is_active = ?", true).
		Order("stem_count ASC NULLS FIRST").
		Find(&products).Error
	return products, err
}

// Create persists a new product with its associations.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product; images and pricing rule cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock reduces available stock inside the caller's transaction. The
// guarded WHERE clause makes oversell a zero-row update instead of a negative
// quantity.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "decrement quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", productID, qty).
		Update("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty = 0", productID).
		Update("stock_status", enums.StockStatusOutOfStock).Error
}

// DecrementStockTx runs DecrementStock inside the caller's transaction.
func (r *Repository) DecrementStockTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	return r.WithTx(tx).DecrementStock(ctx, productID, qty)
}

// GetPricingRule returns the product's pricing rule, nil when none exists.
func (r *Repository) GetPricingRule(ctx context.Context, productID uuid.UUID) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.WithContext(ctx).First(&rule, "product_id = ?", productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// UpsertPricingRule replaces the product's pricing rule.
func (r *Repository) UpsertPricingRule(ctx context.Context, rule *models.PricingRule) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", rule.ProductID).Delete(&models.PricingRule{}).Error; err != nil {
		return err
	}
	return tx.Create(rule).Error
}

// ListAddons returns the active addon catalog.
func (r *Repository) ListAddons(ctx context.Context) ([]models.Addon, error) {
	var addons []models.Addon
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&addons).Error
	return addons, err
}

// FindAddonsByIDs loads the requested addons, erroring when any id is unknown.
func (r *Repository) FindAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []models.Addon
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	if len(addons) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more addons not found")
	}
	return addons, nil
}
