package enums

import "fmt"

// OrderType classifies who benefits from an order.
type OrderType string

const (
	OrderTypeSelf    OrderType = "self"
	OrderTypeDonate  OrderType = "donate"
	OrderTypeSponsor OrderType = "sponsor"
)

var validOrderTypes = []OrderType{
	OrderTypeSelf,
	OrderTypeDonate,
	OrderTypeSponsor,
}

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OrderType.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// RequiresAddress reports whether the type needs a street address.
func (t OrderType) RequiresAddress() bool {
	return t == OrderTypeSelf
}

// RequiresDeliveryLocation reports whether the type needs a distribution
// location instead of a street address.
func (t OrderType) RequiresDeliveryLocation() bool {
	return t == OrderTypeDonate || t == OrderTypeSponsor
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
