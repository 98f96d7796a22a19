package enums

import "fmt"

// VendorStatus is the vendor's response to an order.
type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusAccepted VendorStatus = "accepted"
	VendorStatusDeclined VendorStatus = "declined"
)

var validVendorStatuses = []VendorStatus{
	VendorStatusPending,
	VendorStatusAccepted,
	VendorStatusDeclined,
}

func (s VendorStatus) IsValid() bool {
	for _, candidate := range validVendorStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseVendorStatus(value string) (VendorStatus, error) {
	for _, candidate := range validVendorStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor status %q", value)
}
