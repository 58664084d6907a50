package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AddressSnapshot is the shipping address frozen onto an order at placement
// time, stored as a jsonb column.
type AddressSnapshot struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (s *AddressSnapshot) Scan(src any) error {
	if src == nil {
		*s = AddressSnapshot{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("AddressSnapshot: unsupported Scan type %T", src)
	}
}

func (s AddressSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}
