package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat is a float64 that tolerates the directory feed's habit of
// sending numbers as strings. Set is false for null, absent, or
// non-numeric values.
type FlexFloat struct {
	Value float64
	Set   bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexFloat{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = FlexFloat{}
			return nil
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = FlexFloat{}
			return nil
		}
		*f = FlexFloat{Value: v, Set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{Value: v, Set: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// FlexBool is a tri-state boolean: true, false, or unknown. It accepts
// JSON booleans, "true"/"false" strings, and 0/1 numbers.
type FlexBool struct {
	Value bool
	Set   bool
}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*b = FlexBool{}
	case bytes.Equal(data, []byte("true")):
		*b = FlexBool{Value: true, Set: true}
	case bytes.Equal(data, []byte("false")):
		*b = FlexBool{Value: false, Set: true}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*b = FlexBool{}
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			*b = FlexBool{Value: true, Set: true}
		case "false", "0", "no":
			*b = FlexBool{Value: false, Set: true}
		default:
			*b = FlexBool{}
		}
	case bytes.Equal(data, []byte("1")):
		*b = FlexBool{Value: true, Set: true}
	case bytes.Equal(data, []byte("0")):
		*b = FlexBool{Value: false, Set: true}
	default:
		*b = FlexBool{}
	}
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	if !b.Set {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// WarehouseStock is one warehouse line of a product's stock breakdown.
type WarehouseStock struct {
	Code     string  `json:"code"`
	Name     string  `json:"name,omitempty"`
	Stock    float64 `json:"stock"`
	External bool    `json:"external"`
}

// Product is one catalog product as returned by the directory for a
// vehicle/family pair.
type Product struct {
	Ref           string `json:"ref"`
	CommercialRef string `json:"commercial_ref,omitempty"`
	Name          string `json:"name"`
	BrandCode     string `json:"brand_code,omitempty"`
	BrandName     string `json:"brand_name,omitempty"`

	Available FlexBool  `json:"available"`
	Price     FlexFloat `json:"price"`
	Tax       FlexFloat `json:"tax,omitempty"`
	Discount  FlexFloat `json:"discount,omitempty"`
	Turnover  FlexFloat `json:"turnover,omitempty"`

	Warehouses []WarehouseStock `json:"warehouses,omitempty"`
}

// SameIdentity reports whether two products refer to the same article:
// identical ref and brand code.
func (p Product) SameIdentity(o Product) bool {
	return p.Ref == o.Ref && p.BrandCode == o.BrandCode
}
