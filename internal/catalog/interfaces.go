package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
)

// ProductRepository defines the persistence surface required by the catalog service.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	ListVariants(ctx context.Context, baseProductID uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPricingRule(ctx context.Context, productID uuid.UUID) (*models.PricingRule, error)
	UpsertPricingRule(ctx context.Context, rule *models.PricingRule) error
	ListAddons(ctx context.Context) ([]models.Addon, error)
	FindAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error)
}
