package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any listing can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page describes one slice of a listing along with its page bookkeeping.
type Page struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(totalItems/pageSize); zero for an empty listing.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ClampPage bounds the requested page to [1, totalPages]. An empty listing
// clamps to page 1 so the response still carries stable bookkeeping.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages > 0 && page > totalPages {
		return totalPages
	}
	return page
}

// Describe computes the Page envelope for the normalized inputs.
func Describe(params Params, totalItems int) Page {
	size := NormalizePageSize(params.PageSize)
	total := TotalPages(totalItems, size)
	return Page{
		Page:       ClampPage(params.Page, total),
		PageSize:   size,
		TotalItems: totalItems,
		TotalPages: total,
	}
}

// Bounds returns the [start, end) slice offsets for the described page.
func Bounds(p Page) (int, int) {
	if p.TotalItems == 0 {
		return 0, 0
	}
	start := (p.Page - 1) * p.PageSize
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end := start + p.PageSize
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}
