package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	bySlug   map[string]*models.Product
	active   []models.Product
	variants []models.Product
	addons   []models.Addon
	rules    map[uuid.UUID]*models.PricingRule

	created *models.Product
	updated *models.Product
	deleted []uuid.UUID
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: map[uuid.UUID]*models.Product{},
		bySlug:   map[string]*models.Product{},
		rules:    map[uuid.UUID]*models.PricingRule{},
	}
}

func (s *stubProductRepo) add(p *models.Product) {
	s.products[p.ID] = p
	s.bySlug[p.Slug] = p
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	if p, ok := s.bySlug[slug]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) ListActive(context.Context) ([]models.Product, error) {
	return s.active, nil
}

func (s *stubProductRepo) ListVariants(context.Context, uuid.UUID) ([]models.Product, error) {
	return s.variants, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.created = product
	return product, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.updated = product
	return product, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductRepo) GetPricingRule(_ context.Context, productID uuid.UUID) (*models.PricingRule, error) {
	return s.rules[productID], nil
}

func (s *stubProductRepo) UpsertPricingRule(_ context.Context, rule *models.PricingRule) error {
	s.rules[rule.ProductID] = rule
	return nil
}

func (s *stubProductRepo) ListAddons(context.Context) ([]models.Addon, error) {
	return s.addons, nil
}

func (s *stubProductRepo) FindAddonsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Addon, error) {
	var out []models.Addon
	for _, id := range ids {
		found := false
		for _, a := range s.addons {
			if a.ID == id {
				out = append(out, a)
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
	}
	return out, nil
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubProductRepo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Slug: "rode-rozen", Type: enums.ProductTypeBouquet}},
		{"missing slug", CreateProductInput{Name: "Rode rozen", Type: enums.ProductTypeBouquet}},
		{"bad type", CreateProductInput{Name: "Rode rozen", Slug: "rode-rozen", Type: enums.ProductType("bundle")}},
		{"sale above regular", CreateProductInput{
			Name: "Rode rozen", Slug: "rode-rozen", Type: enums.ProductTypeBouquet,
			RegularPriceCents: 1000, SalePriceCents: intPtr(1200),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductSetsStockStatus(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	svc, _ := NewService(repo)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:              "Witte tulpen",
		Slug:              "witte-tulpen",
		Type:              enums.ProductTypeBouquet,
		PriceCents:        995,
		RegularPriceCents: 995,
		StockQty:          0,
		IsActive:          true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.StockStatus != string(enums.StockStatusOutOfStock) {
		t.Fatalf("expected out of stock, got %s", dto.StockStatus)
	}
	if repo.created == nil || repo.created.Slug != "witte-tulpen" {
		t.Fatalf("expected product persisted")
	}
}

func TestUpdateProductPriceOrdering(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	product := &models.Product{
		ID: uuid.New(), Name: "Boeket Amsterdam", Slug: "boeket-amsterdam",
		Type: enums.ProductTypeBouquet, RegularPriceCents: 1950,
	}
	repo.add(product)
	svc, _ := NewService(repo)

	_, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		SalePriceCents: intPtr(2000),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProductBySlugNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProductRepo())

	_, err := svc.GetProductBySlug(context.Background(), "onbekend")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProductsFiltersAndSorts(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	now := time.Now()
	repo.active = []models.Product{
		{ID: uuid.New(), Name: "Rode rozen", Slug: "rode-rozen", Type: enums.ProductTypeBouquet, Categories: pq.StringArray{"rozen"}, PriceCents: 1950, StockStatus: enums.StockStatusInStock, CreatedAt: now},
		{ID: uuid.New(), Name: "Witte tulpen", Slug: "witte-tulpen", Type: enums.ProductTypeBouquet, Categories: pq.StringArray{"tulpen"}, PriceCents: 995, StockStatus: enums.StockStatusInStock, CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), Name: "Gemengd boeket", Slug: "gemengd-boeket", Type: enums.ProductTypeSeasonal, Categories: pq.StringArray{"boeketten"}, PriceCents: 2495, StockStatus: enums.StockStatusOutOfStock, CreatedAt: now.Add(-2 * time.Hour)},
	}
	svc, _ := NewService(repo)

	bouquet := enums.ProductTypeBouquet
	result, err := svc.ListProducts(context.Background(), ListProductsInput{
		Filters:    ProductListFilters{Type: &bouquet},
		Sort:       SortByPriceAsc,
		Pagination: pagination.Params{Page: 1, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 bouquet products, got %d", len(result.Items))
	}
	if result.Items[0].PriceCents != 995 || result.Items[1].PriceCents != 1950 {
		t.Fatalf("expected ascending price order, got %+v", result.Items)
	}

	// Re-running the same filter over its own output changes nothing.
	again, err := svc.ListProducts(context.Background(), ListProductsInput{
		Filters:    ProductListFilters{Type: &bouquet},
		Sort:       SortByPriceAsc,
		Pagination: pagination.Params{Page: 1, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again.Items) != len(result.Items) {
		t.Fatalf("expected stable filter output")
	}

	result, err = svc.ListProducts(context.Background(), ListProductsInput{
		Filters:    ProductListFilters{Query: "TULPEN"},
		Pagination: pagination.Params{Page: 1, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Slug != "witte-tulpen" {
		t.Fatalf("expected case-insensitive match, got %+v", result.Items)
	}

	min := 1000
	result, err = svc.ListProducts(context.Background(), ListProductsInput{
		Filters:    ProductListFilters{PriceMin: &min, Category: "rozen"},
		Pagination: pagination.Params{Page: 1, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Slug != "rode-rozen" {
		t.Fatalf("expected combined filters to conjoin, got %+v", result.Items)
	}
}

func TestQuoteUnitPriceWithVariantAndAddons(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	base := &models.Product{
		ID: uuid.New(), Name: "Rozen per steel", Slug: "rozen-per-steel",
		Type: enums.ProductTypeRoses, PriceCents: 1950, StemCount: intPtr(10),
	}
	variant := &models.Product{
		ID: uuid.New(), Name: "Rozen 20 stelen", Slug: "rozen-20-stelen",
		Type: enums.ProductTypeRoses, PriceCents: 2500,
		BaseProductID: &base.ID, StemCount: intPtr(13),
	}
	repo.add(base)
	repo.add(variant)
	addon := models.Addon{ID: uuid.New(), Name: "Vaas", PriceCents: 750}
	repo.addons = []models.Addon{addon}
	repo.rules[base.ID] = &models.PricingRule{
		ProductID: base.ID, Kind: enums.PricingRulePerUnitSurcharge,
		BaseUnits: 10, UnitPriceCents: 100,
	}
	svc, _ := NewService(repo)

	quote, err := svc.QuoteUnitPrice(context.Background(), QuoteInput{
		ProductID: base.ID,
		VariantID: &variant.ID,
		AddonIDs:  []uuid.UUID{addon.ID},
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.SurchargeCents != 300 {
		t.Fatalf("expected 300 surcharge for 13 stems, got %d", quote.SurchargeCents)
	}
	if quote.AddonCents != 750 {
		t.Fatalf("expected 750 addon cents, got %d", quote.AddonCents)
	}
	if want := 2500 + 750 + 300; quote.UnitPriceCents != want {
		t.Fatalf("expected unit price %d, got %d", want, quote.UnitPriceCents)
	}
}

func TestQuoteUnitPriceRejectsForeignVariant(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	base := &models.Product{ID: uuid.New(), Name: "Rozen", Slug: "rozen", Type: enums.ProductTypeRoses, PriceCents: 1950}
	other := &models.Product{ID: uuid.New(), Name: "Tulpen", Slug: "tulpen", Type: enums.ProductTypeBouquet, PriceCents: 995}
	repo.add(base)
	repo.add(other)
	svc, _ := NewService(repo)

	_, err := svc.QuoteUnitPrice(context.Background(), QuoteInput{
		ProductID: base.ID,
		VariantID: &other.ID,
		Quantity:  1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuoteUnitPriceLimitedDropCap(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	drop := &models.Product{ID: uuid.New(), Name: "Pioenrozen drop", Slug: "pioenrozen-drop", Type: enums.ProductTypeBouquet, PriceCents: 2995}
	repo.add(drop)
	repo.rules[drop.ID] = &models.PricingRule{
		ProductID: drop.ID, Kind: enums.PricingRuleLimitedDrop, MaxPerOrder: 2,
	}
	svc, _ := NewService(repo)

	_, err := svc.QuoteUnitPrice(context.Background(), QuoteInput{ProductID: drop.ID, Quantity: 3})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for quantity above cap, got %v", err)
	}

	if _, err := svc.QuoteUnitPrice(context.Background(), QuoteInput{ProductID: drop.ID, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error at cap: %v", err)
	}
}
