package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/catalog"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

// Service exposes cart operations for the storefront.
type Service interface {
	GetActiveCart(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*models.CartRecord, error)
	UpdateQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartRecord, error)
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

// AddItemInput captures one configured line to add to the cart.
type AddItemInput struct {
	ProductID   uuid.UUID
	VariantID   *uuid.UUID
	Quantity    int
	AddonIDs    []uuid.UUID
	CardMessage *string
	RibbonText  *string
	RibbonColor *string
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productCatalog
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

// GetActiveCart loads the customer's active cart, creating an empty one when
// none exists yet.
func (s *service) GetActiveCart(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	created, err := s.repo.Create(ctx, &models.CartRecord{
		CustomerID: customerID,
		Status:     enums.CartStatusActive,
		Currency:   enums.CurrencyEUR,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

// AddItem prices the configured line and merges it into the active cart. A
// line merges into an existing one only when its fingerprint matches exactly.
func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*models.CartRecord, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	var variant *models.Product
	if input.VariantID != nil && *input.VariantID != product.ID {
		variant, err = s.loadProduct(ctx, *input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant.BaseProductID == nil || *variant.BaseProductID != product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
		}
	}

	addons, err := s.products.FindAddonsByIDs(ctx, input.AddonIDs)
	if err != nil {
		return nil, err
	}
	rule, err := s.products.GetPricingRule(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading pricing rule")
	}

	record, err := s.GetActiveCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(product.ID, input.VariantID, input.AddonIDs, input.CardMessage, input.RibbonText, input.RibbonColor)

	merged := false
	items := append([]models.CartItem{}, record.Items...)
	for i := range items {
		if items[i].Fingerprint != fingerprint {
			continue
		}
		newQty := items[i].Quantity + input.Quantity
		if err := catalog.ValidateQuantity(rule, newQty); err != nil {
			return nil, err
		}
		items[i].Quantity = newQty
		merged = true
		break
	}

	if !merged {
		if err := catalog.ValidateQuantity(rule, input.Quantity); err != nil {
			return nil, err
		}
		item := models.CartItem{
			ProductID:      product.ID,
			VariantID:      input.VariantID,
			Fingerprint:    fingerprint,
			Name:           displayName(product, variant),
			SKU:            skuFor(product, variant),
			Permalink:      "/products/" + product.Slug,
			UnitPriceCents: catalog.UnitPrice(product, variant, addons, rule),
			Quantity:       input.Quantity,
			CardMessage:    input.CardMessage,
			RibbonText:     input.RibbonText,
			RibbonColor:    input.RibbonColor,
		}
		if len(product.Images) > 0 {
			item.ImageSrc = product.Images[0].Src
		}
		for _, addon := range addons {
			item.Addons = append(item.Addons, models.CartItemAddon{
				AddonID:    addon.ID,
				Name:       addon.Name,
				PriceCents: addon.PriceCents,
			})
		}
		items = append(items, item)
	}

	return s.persistItems(ctx, record, items)
}

// UpdateQuantity sets the quantity of an existing line.
func (s *service) UpdateQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	record, err := s.requireActiveCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items := append([]models.CartItem{}, record.Items...)
	found := false
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		rule, err := s.products.GetPricingRule(ctx, items[i].ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading pricing rule")
		}
		if err := catalog.ValidateQuantity(rule, quantity); err != nil {
			return nil, err
		}
		items[i].Quantity = quantity
		found = true
		break
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	return s.persistItems(ctx, record, items)
}

// RemoveItem drops one line from the cart.
func (s *service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.requireActiveCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(record.Items))
	found := false
	for _, item := range record.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	return s.persistItems(ctx, record, items)
}

// ClearCart empties the active cart.
func (s *service) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	record, err := s.requireActiveCart(ctx, customerID)
	if err != nil {
		return err
	}
	_, err = s.persistItems(ctx, record, nil)
	return err
}

func (s *service) requireActiveCart(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return record, nil
}

func (s *service) persistItems(ctx context.Context, record *models.CartRecord, items []models.CartItem) (*models.CartRecord, error) {
	subtotal := 0
	for i := range items {
		items[i].LineTotalCents = LineTotal(&items[i])
		subtotal += items[i].LineTotalCents
	}
	record.SubtotalCents = subtotal

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceItems(ctx, record.ID, items); err != nil {
			return err
		}
		snapshot := *record
		snapshot.Items = nil
		_, err := repo.Update(ctx, &snapshot)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cart")
	}

	record.Items = items
	return record, nil
}

// LineTotal is the extended price of one cart line.
func LineTotal(item *models.CartItem) int {
	return item.UnitPriceCents * item.Quantity
}

// Subtotal sums the extended prices of every line.
func Subtotal(items []models.CartItem) int {
	total := 0
	for i := range items {
		total += LineTotal(&items[i])
	}
	return total
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func displayName(product, variant *models.Product) string {
	if variant != nil && strings.TrimSpace(variant.Name) != "" {
		return variant.Name
	}
	return product.Name
}

func skuFor(product, variant *models.Product) string {
	if variant != nil && variant.SKU != "" {
		return variant.SKU
	}
	return product.SKU
}
