package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/listing"
)

// Service exposes catalog browse and management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ListVariants(ctx context.Context, baseProductID uuid.UUID) ([]ProductDTO, error)
	ListAddons(ctx context.Context) ([]AddonDTO, error)
	QuoteUnitPrice(ctx context.Context, input QuoteInput) (*PriceQuoteDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name              string
	Slug              string
	SKU               string
	Type              enums.ProductType
	Categories        []string
	PriceCents        int
	RegularPriceCents int
	SalePriceCents    *int
	StockQty          int
	BaseProductID     *uuid.UUID
	StemCount         *int
	IsActive          bool
	Images            []ImageInput
	PricingRule       *PricingRuleInput
}

// ImageInput is one ordered gallery entry.
type ImageInput struct {
	Src string
	Alt string
}

// PricingRuleInput configures the per-product pricing rule.
type PricingRuleInput struct {
	Kind           enums.PricingRuleKind
	BaseUnits      int
	UnitPriceCents int
	MaxPerOrder    int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name              *string
	SKU               *string
	Categories        *[]string
	PriceCents        *int
	RegularPriceCents *int
	SalePriceCents    *int
	StockQty          *int
	StemCount         *int
	IsActive          *bool
	PricingRule       *PricingRuleInput
}

// QuoteInput identifies a configured line to price.
type QuoteInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	AddonIDs  []uuid.UUID
	Quantity  int
}

// service implements the catalog service.
type service struct {
	repo ProductRepository
}

// NewService constructs a catalog service instance.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	if err := validatePriceOrdering(input.RegularPriceCents, input.SalePriceCents); err != nil {
		return nil, err
	}
	if input.PricingRule != nil && !input.PricingRule.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pricing rule kind")
	}

	product := &models.Product{
		Name:              strings.TrimSpace(input.Name),
		Slug:              strings.TrimSpace(input.Slug),
		SKU:               strings.TrimSpace(input.SKU),
		Type:              input.Type,
		Categories:        pq.StringArray(input.Categories),
		PriceCents:        input.PriceCents,
		RegularPriceCents: input.RegularPriceCents,
		SalePriceCents:    input.SalePriceCents,
		StockQty:          input.StockQty,
		StockStatus:       stockStatusFor(input.StockQty),
		BaseProductID:     input.BaseProductID,
		StemCount:         input.StemCount,
		IsActive:          input.IsActive,
	}
	for i, img := range input.Images {
		product.Images = append(product.Images, models.ProductImage{
			Position: i,
			Src:      img.Src,
			Alt:      img.Alt,
		})
	}
	if input.PricingRule != nil {
		product.PricingRule = &models.PricingRule{
			Kind:           input.PricingRule.Kind,
			BaseUnits:      input.PricingRule.BaseUnits,
			UnitPriceCents: input.PricingRule.UnitPriceCents,
			MaxPerOrder:    input.PricingRule.MaxPerOrder,
		}
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOrInternal(err, "product")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Categories != nil {
		product.Categories = pq.StringArray(*input.Categories)
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.RegularPriceCents != nil {
		product.RegularPriceCents = *input.RegularPriceCents
	}
	if input.SalePriceCents != nil {
		product.SalePriceCents = input.SalePriceCents
	}
	if err := validatePriceOrdering(product.RegularPriceCents, product.SalePriceCents); err != nil {
		return nil, err
	}
	if input.StockQty != nil {
		product.StockQty = *input.StockQty
		product.StockStatus = stockStatusFor(*input.StockQty)
	}
	if input.StemCount != nil {
		product.StemCount = input.StemCount
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	// Save ignores the preloaded rule; rule changes go through the upsert.
	product.PricingRule = nil
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	if input.PricingRule != nil {
		if !input.PricingRule.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pricing rule kind")
		}
		rule := &models.PricingRule{
			ProductID:      productID,
			Kind:           input.PricingRule.Kind,
			BaseUnits:      input.PricingRule.BaseUnits,
			UnitPriceCents: input.PricingRule.UnitPriceCents,
			MaxPerOrder:    input.PricingRule.MaxPerOrder,
		}
		if err := s.repo.UpsertPricingRule(ctx, rule); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating pricing rule")
		}
		updated.PricingRule = rule
	}

	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return notFoundOrInternal(err, "product")
	}
	return nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, notFoundOrInternal(err, "product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	predicates := []listing.Predicate[models.Product]{
		listing.TextSearch(input.Filters.Query, func(p models.Product) []string {
			return []string{p.Name, p.Slug, p.SKU}
		}),
	}
	if input.Filters.Type != nil {
		want := string(*input.Filters.Type)
		predicates = append(predicates, listing.Equals(want, func(p models.Product) string {
			return string(p.Type)
		}))
	}
	if input.Filters.StockStatus != nil {
		want := string(*input.Filters.StockStatus)
		predicates = append(predicates, listing.Equals(want, func(p models.Product) string {
			return string(p.StockStatus)
		}))
	}
	if category := strings.TrimSpace(input.Filters.Category); category != "" {
		predicates = append(predicates, func(p models.Product) bool {
			for _, c := range p.Categories {
				if strings.EqualFold(c, category) {
					return true
				}
			}
			return false
		})
	}
	if input.Filters.PriceMin != nil {
		min := *input.Filters.PriceMin
		predicates = append(predicates, func(p models.Product) bool { return p.PriceCents >= min })
	}
	if input.Filters.PriceMax != nil {
		max := *input.Filters.PriceMax
		predicates = append(predicates, func(p models.Product) bool { return p.PriceCents <= max })
	}

	result := listing.Apply(products, input.Pagination, comparatorFor(input.Sort), predicates...)

	items := make([]ProductDTO, len(result.Items))
	for i := range result.Items {
		items[i] = *NewProductDTO(&result.Items[i])
	}
	return &ProductListResult{Items: items, Page: result.Page}, nil
}

func (s *service) ListVariants(ctx context.Context, baseProductID uuid.UUID) ([]ProductDTO, error) {
	variants, err := s.repo.ListVariants(ctx, baseProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing variants")
	}
	dtos := make([]ProductDTO, len(variants))
	for i := range variants {
		dtos[i] = *NewProductDTO(&variants[i])
	}
	return dtos, nil
}

func (s *service) ListAddons(ctx context.Context) ([]AddonDTO, error) {
	addons, err := s.repo.ListAddons(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addons")
	}
	dtos := make([]AddonDTO, len(addons))
	for i := range addons {
		dtos[i] = *NewAddonDTO(&addons[i])
	}
	return dtos, nil
}

func (s *service) QuoteUnitPrice(ctx context.Context, input QuoteInput) (*PriceQuoteDTO, error) {
	product, err := s.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, notFoundOrInternal(err, "product")
	}

	var variant *models.Product
	if input.VariantID != nil && *input.VariantID != product.ID {
		variant, err = s.repo.FindByID(ctx, *input.VariantID)
		if err != nil {
			return nil, notFoundOrInternal(err, "variant")
		}
		if variant.BaseProductID == nil || *variant.BaseProductID != product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
		}
	}

	addons, err := s.repo.FindAddonsByIDs(ctx, input.AddonIDs)
	if err != nil {
		return nil, err
	}

	rule, err := s.repo.GetPricingRule(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading pricing rule")
	}
	if err := ValidateQuantity(rule, input.Quantity); err != nil {
		return nil, err
	}

	addonCents := 0
	for _, addon := range addons {
		addonCents += addon.PriceCents
	}

	units := 0
	if product.StemCount != nil {
		units = *product.StemCount
	}
	if variant != nil && variant.StemCount != nil {
		units = *variant.StemCount
	}

	return &PriceQuoteDTO{
		ProductID:      product.ID,
		VariantID:      input.VariantID,
		UnitPriceCents: UnitPrice(product, variant, addons, rule),
		SurchargeCents: Surcharge(rule, units),
		AddonCents:     addonCents,
	}, nil
}

func comparatorFor(sort ProductSort) listing.Comparator[models.Product] {
	switch sort {
	case SortByPriceAsc:
		return func(a, b models.Product) bool { return a.PriceCents < b.PriceCents }
	case SortByPriceDsc:
		return func(a, b models.Product) bool { return a.PriceCents > b.PriceCents }
	case SortByNewest:
		return func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortByName:
		return func(a, b models.Product) bool { return a.Name < b.Name }
	default:
		return nil
	}
}

func validatePriceOrdering(regularCents int, saleCents *int) error {
	if saleCents == nil {
		return nil
	}
	if *saleCents >= regularCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be below the regular price")
	}
	return nil
}

func stockStatusFor(qty int) enums.StockStatus {
	if qty > 0 {
		return enums.StockStatusInStock
	}
	return enums.StockStatusOutOfStock
}

func notFoundOrInternal(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading "+entity)
}
