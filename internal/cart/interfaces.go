package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	FindByIDAndCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	Update(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
	UpdateStatus(ctx context.Context, id, customerID uuid.UUID, status enums.CartStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Addon, error)
	GetPricingRule(ctx context.Context, productID uuid.UUID) (*models.PricingRule, error)
}
