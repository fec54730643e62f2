package catalog

import (
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Query       string             `json:"q,omitempty"`
	Type        *enums.ProductType `json:"type,omitempty"`
	Category    string             `json:"category,omitempty"`
	StockStatus *enums.StockStatus `json:"stock_status,omitempty"`
	PriceMin    *int               `json:"price_min_cents,omitempty"`
	PriceMax    *int               `json:"price_max_cents,omitempty"`
}

// ProductSort names the supported comparators.
type ProductSort string

const (
	SortByName     ProductSort = "name"
	SortByPriceAsc ProductSort = "price_asc"
	SortByPriceDsc ProductSort = "price_desc"
	SortByNewest   ProductSort = "newest"
)

// ListProductsInput captures the inputs needed to paginate/filter the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	Sort       ProductSort
	Pagination pagination.Params
}

// ProductListResult is one page of the browsed catalog.
type ProductListResult struct {
	Items []ProductDTO    `json:"items"`
	Page  pagination.Page `json:"page"`
}
