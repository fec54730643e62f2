package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/catalog"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

func discardLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubCatalog struct {
	lastList  catalog.ListProductsInput
	lastQuote catalog.QuoteInput
}

func (s *stubCatalog) CreateProduct(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (s *stubCatalog) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (s *stubCatalog) DeleteProduct(context.Context, uuid.UUID) error { return nil }

func (s *stubCatalog) GetProductBySlug(_ context.Context, slug string) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{Slug: slug}, nil
}

func (s *stubCatalog) ListProducts(_ context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	s.lastList = input
	return &catalog.ProductListResult{Items: []catalog.ProductDTO{}, Page: pagination.Page{Page: 1, PageSize: input.Pagination.PageSize}}, nil
}

func (s *stubCatalog) ListVariants(context.Context, uuid.UUID) ([]catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubCatalog) ListAddons(context.Context) ([]catalog.AddonDTO, error) { return nil, nil }

func (s *stubCatalog) QuoteUnitPrice(_ context.Context, input catalog.QuoteInput) (*catalog.PriceQuoteDTO, error) {
	s.lastQuote = input
	return &catalog.PriceQuoteDTO{}, nil
}

func TestListProductsQueryParsing(t *testing.T) {
	logg := discardLogger()

	t.Run("filters and sort forwarded", func(t *testing.T) {
		stub := &stubCatalog{}
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/products?q=rozen&type=bouquet&sort=price_asc&price_min_cents=1000&page=2&page_size=12", nil)
		rec := httptest.NewRecorder()
		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastList.Filters.Query != "rozen" {
			t.Fatalf("expected query filter rozen, got %q", stub.lastList.Filters.Query)
		}
		if stub.lastList.Filters.Type == nil || *stub.lastList.Filters.Type != enums.ProductTypeBouquet {
			t.Fatalf("expected bouquet type filter, got %v", stub.lastList.Filters.Type)
		}
		if stub.lastList.Filters.PriceMin == nil || *stub.lastList.Filters.PriceMin != 1000 {
			t.Fatalf("expected price_min 1000, got %v", stub.lastList.Filters.PriceMin)
		}
		if stub.lastList.Sort != catalog.SortByPriceAsc {
			t.Fatalf("expected price_asc sort, got %q", stub.lastList.Sort)
		}
		if stub.lastList.Pagination != (pagination.Params{Page: 2, PageSize: 12}) {
			t.Fatalf("unexpected pagination %+v", stub.lastList.Pagination)
		}
	})

	t.Run("invalid product type rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?type=garden-gnome", nil)
		rec := httptest.NewRecorder()
		ListProducts(&stubCatalog{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid type, got %d", rec.Code)
		}
	})

	t.Run("invalid sort rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?sort=alphabetical", nil)
		rec := httptest.NewRecorder()
		ListProducts(&stubCatalog{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid sort, got %d", rec.Code)
		}
	})
}

func TestListProductVariantsRequiresBaseProduct(t *testing.T) {
	logg := discardLogger()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/variants", nil)
	rec := httptest.NewRecorder()
	ListProductVariants(&stubCatalog{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without base_product_id, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/variants?base_product_id="+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	ListProductVariants(&stubCatalog{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with base_product_id, got %d", rec.Code)
	}
}

func TestQuoteUnitPrice(t *testing.T) {
	logg := discardLogger()
	productID := uuid.New()
	addonID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubCatalog{}
		body := `{"product_id":"` + productID.String() + `","addon_ids":["` + addonID.String() + `"],"quantity":3}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		QuoteUnitPrice(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastQuote.ProductID != productID {
			t.Fatalf("expected product %s, got %s", productID, stub.lastQuote.ProductID)
		}
		if len(stub.lastQuote.AddonIDs) != 1 || stub.lastQuote.AddonIDs[0] != addonID {
			t.Fatalf("unexpected addon ids %v", stub.lastQuote.AddonIDs)
		}
		if stub.lastQuote.Quantity != 3 {
			t.Fatalf("expected quantity 3, got %d", stub.lastQuote.Quantity)
		}
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","quantity":0}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		QuoteUnitPrice(&stubCatalog{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed product id", func(t *testing.T) {
		body := `{"product_id":"not-a-uuid","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		QuoteUnitPrice(&stubCatalog{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
		}
	})
}
