package types

import "strings"

// Address is the delivery address snapshot stored on orders and deliveries.
type Address struct {
	Street     string `json:"street"`
	HouseNo    string `json:"house_no"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// CountryCode returns the normalized ISO country code, defaulting to NL.
func (a Address) CountryCode() string {
	code := strings.ToUpper(strings.TrimSpace(a.Country))
	if code == "" {
		return "NL"
	}
	return code
}

// IsComplete reports whether all required delivery fields are present.
func (a Address) IsComplete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.HouseNo) != "" &&
		strings.TrimSpace(a.PostalCode) != "" &&
		strings.TrimSpace(a.City) != ""
}
