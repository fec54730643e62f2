package enums

import "fmt"

// ProductType groups catalog listings by occasion.
type ProductType string

const (
	ProductTypeBouquet  ProductType = "bouquet"
	ProductTypeRoses    ProductType = "roses"
	ProductTypePlant    ProductType = "plant"
	ProductTypeWedding  ProductType = "wedding"
	ProductTypeFuneral  ProductType = "funeral"
	ProductTypeBirth    ProductType = "birth"
	ProductTypeSeasonal ProductType = "seasonal"
)

var validProductTypes = []ProductType{
	ProductTypeBouquet,
	ProductTypeRoses,
	ProductTypePlant,
	ProductTypeWedding,
	ProductTypeFuneral,
	ProductTypeBirth,
	ProductTypeSeasonal,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}

// StockStatus mirrors the catalog availability flag.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusBackorder  StockStatus = "backorder"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusOutOfStock,
	StockStatusBackorder,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
