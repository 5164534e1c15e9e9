package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DeliveryAddress is persisted as serialized text on orders. Writes always
// produce JSON; reads tolerate legacy rows that stored a bare address
// string, keeping the raw text instead of failing the scan.
type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	State   string `json:"state,omitempty"`

	// Raw holds the original column text when it was not valid JSON.
	Raw string `json:"raw,omitempty"`
}

// IsLegacy reports whether the row carried a non-JSON address string.
func (a DeliveryAddress) IsLegacy() bool {
	return a.Raw != ""
}

// Validate enforces the fields required to accept a new order.
func (a DeliveryAddress) Validate() error {
	missing := []string{}
	if strings.TrimSpace(a.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.Pincode) == "" {
		missing = append(missing, "pincode")
	}
	if len(missing) > 0 {
		return fmt.Errorf("delivery address missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Value serializes the address to JSON text.
func (a DeliveryAddress) Value() (driver.Value, error) {
	if a.IsLegacy() {
		return a.Raw, nil
	}
	encoded, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: encode %w", err)
	}
	return string(encoded), nil
}

// Scan decodes the stored text, falling back to the legacy raw form.
func (a *DeliveryAddress) Scan(value interface{}) error {
	if value == nil {
		*a = DeliveryAddress{}
		return nil
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		*a = DeliveryAddress{}
		return nil
	}

	var decoded DeliveryAddress
	if strings.HasPrefix(trimmed, "{") && json.Unmarshal([]byte(trimmed), &decoded) == nil {
		decoded.Raw = ""
		*a = decoded
		return nil
	}

	*a = DeliveryAddress{Raw: raw}
	return nil
}
