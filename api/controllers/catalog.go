package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/api/responses"
	"github.com/media2net-app/bloemenvandegier-sub001/api/validators"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/catalog"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProductListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseProductListQuery(r *http.Request) (*catalog.ListProductsInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	filters := catalog.ProductListFilters{
		Query:    validators.SanitizeString(query.Get("q")),
		Category: validators.SanitizeString(query.Get("category")),
	}

	if raw := query.Get("type"); raw != "" {
		parsed, err := enums.ParseProductType(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
		}
		filters.Type = &parsed
	}
	if raw := query.Get("stock_status"); raw != "" {
		parsed, err := enums.ParseStockStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock status")
		}
		filters.StockStatus = &parsed
	}

	priceMin, err := validators.ParseQueryIntPtr(r, "price_min_cents")
	if err != nil {
		return nil, err
	}
	filters.PriceMin = priceMin
	priceMax, err := validators.ParseQueryIntPtr(r, "price_max_cents")
	if err != nil {
		return nil, err
	}
	filters.PriceMax = priceMax

	sort := catalog.SortByName
	if raw := query.Get("sort"); raw != "" {
		switch catalog.ProductSort(raw) {
		case catalog.SortByName, catalog.SortByPriceAsc, catalog.SortByPriceDsc, catalog.SortByNewest:
			sort = catalog.ProductSort(raw)
		default:
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort value")
		}
	}

	return &catalog.ListProductsInput{Filters: filters, Sort: sort, Pagination: params}, nil
}

func GetProductBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		product, err := svc.GetProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListProductVariants(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baseProductID, err := validators.ParseQueryUUID(r, "base_product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if baseProductID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "base_product_id is required"))
			return
		}

		variants, err := svc.ListVariants(r.Context(), *baseProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, variants)
	}
}

func ListAddons(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addons, err := svc.ListAddons(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addons)
	}
}

type quoteRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	VariantID *string  `json:"variant_id,omitempty" validate:"omitempty,uuid"`
	AddonIDs  []string `json:"addon_ids,omitempty" validate:"dive,uuid"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
}

func (req quoteRequest) toInput() (catalog.QuoteInput, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return catalog.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}

	input := catalog.QuoteInput{ProductID: productID, Quantity: req.Quantity}
	if req.VariantID != nil {
		variantID, err := uuid.Parse(*req.VariantID)
		if err != nil {
			return catalog.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id")
		}
		input.VariantID = &variantID
	}
	for _, raw := range req.AddonIDs {
		addonID, err := uuid.Parse(raw)
		if err != nil {
			return catalog.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid addon id")
		}
		input.AddonIDs = append(input.AddonIDs, addonID)
	}
	return input, nil
}

func QuoteUnitPrice(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.QuoteUnitPrice(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type productImageRequest struct {
	Src string `json:"src" validate:"required"`
	Alt string `json:"alt,omitempty"`
}

type pricingRuleRequest struct {
	Kind           string `json:"kind" validate:"required"`
	BaseUnits      int    `json:"base_units" validate:"gte=0"`
	UnitPriceCents int    `json:"unit_price_cents" validate:"gte=0"`
	MaxPerOrder    int    `json:"max_per_order" validate:"gte=0"`
}

func (req pricingRuleRequest) toInput() (*catalog.PricingRuleInput, error) {
	kind, err := enums.ParsePricingRuleKind(req.Kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing rule kind")
	}
	return &catalog.PricingRuleInput{
		Kind:           kind,
		BaseUnits:      req.BaseUnits,
		UnitPriceCents: req.UnitPriceCents,
		MaxPerOrder:    req.MaxPerOrder,
	}, nil
}

type createProductRequest struct {
	Name              string                `json:"name" validate:"required"`
	Slug              string                `json:"slug" validate:"required"`
	SKU               string                `json:"sku" validate:"required"`
	Type              string                `json:"type" validate:"required"`
	Categories        []string              `json:"categories,omitempty"`
	PriceCents        int                   `json:"price_cents" validate:"gte=0"`
	RegularPriceCents int                   `json:"regular_price_cents" validate:"gte=0"`
	SalePriceCents    *int                  `json:"sale_price_cents,omitempty" validate:"omitempty,gte=0"`
	StockQty          int                   `json:"stock_qty" validate:"gte=0"`
	BaseProductID     *string               `json:"base_product_id,omitempty" validate:"omitempty,uuid"`
	StemCount         *int                  `json:"stem_count,omitempty" validate:"omitempty,gt=0"`
	IsActive          *bool                 `json:"is_active,omitempty"`
	Images            []productImageRequest `json:"images,omitempty" validate:"dive"`
	PricingRule       *pricingRuleRequest   `json:"pricing_rule,omitempty"`
}

func (req createProductRequest) toInput() (catalog.CreateProductInput, error) {
	productType, err := enums.ParseProductType(req.Type)
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
	}

	input := catalog.CreateProductInput{
		Name:              validators.SanitizeString(req.Name),
		Slug:              strings.ToLower(strings.TrimSpace(req.Slug)),
		SKU:               strings.TrimSpace(req.SKU),
		Type:              productType,
		Categories:        req.Categories,
		PriceCents:        req.PriceCents,
		RegularPriceCents: req.RegularPriceCents,
		SalePriceCents:    req.SalePriceCents,
		StockQty:          req.StockQty,
		StemCount:         req.StemCount,
		IsActive:          true,
	}
	if req.IsActive != nil {
		input.IsActive = *req.IsActive
	}
	if req.BaseProductID != nil {
		baseID, err := uuid.Parse(*req.BaseProductID)
		if err != nil {
			return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base product id")
		}
		input.BaseProductID = &baseID
	}
	for _, img := range req.Images {
		input.Images = append(input.Images, catalog.ImageInput{Src: img.Src, Alt: img.Alt})
	}
	if req.PricingRule != nil {
		rule, err := req.PricingRule.toInput()
		if err != nil {
			return catalog.CreateProductInput{}, err
		}
		input.PricingRule = rule
	}
	return input, nil
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name              *string             `json:"name,omitempty"`
	SKU               *string             `json:"sku,omitempty"`
	Categories        *[]string           `json:"categories,omitempty"`
	PriceCents        *int                `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	RegularPriceCents *int                `json:"regular_price_cents,omitempty" validate:"omitempty,gte=0"`
	SalePriceCents    *int                `json:"sale_price_cents,omitempty" validate:"omitempty,gte=0"`
	StockQty          *int                `json:"stock_qty,omitempty" validate:"omitempty,gte=0"`
	StemCount         *int                `json:"stem_count,omitempty" validate:"omitempty,gt=0"`
	IsActive          *bool               `json:"is_active,omitempty"`
	PricingRule       *pricingRuleRequest `json:"pricing_rule,omitempty"`
}

func (req updateProductRequest) toInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:              req.Name,
		SKU:               req.SKU,
		Categories:        req.Categories,
		PriceCents:        req.PriceCents,
		RegularPriceCents: req.RegularPriceCents,
		SalePriceCents:    req.SalePriceCents,
		StockQty:          req.StockQty,
		StemCount:         req.StemCount,
		IsActive:          req.IsActive,
	}
	if req.PricingRule != nil {
		rule, err := req.PricingRule.toInput()
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.PricingRule = rule
	}
	return input, nil
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "id"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
