package model

import (
	"encoding/json"
	"testing"
)

func TestProduct_ToleratesFeedShapes(t *testing.T) {
	// The directory feed mixes numbers, numeric strings with comma decimal
	// separators, and string booleans in the same payload.
	raw := `{
		"ref": "BP-100",
		"name": "brake pads",
		"brand_code": "trw",
		"available": "1",
		"price": "34,90",
		"tax": 21,
		"discount": null,
		"turnover": "7.5"
	}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Available.Set || !p.Available.Value {
		t.Fatalf("available = %+v", p.Available)
	}
	if !p.Price.Set || p.Price.Value != 34.90 {
		t.Fatalf("price = %+v", p.Price)
	}
	if !p.Tax.Set || p.Tax.Value != 21 {
		t.Fatalf("tax = %+v", p.Tax)
	}
	if p.Discount.Set {
		t.Fatalf("null discount must stay unset")
	}
	if !p.Turnover.Set || p.Turnover.Value != 7.5 {
		t.Fatalf("turnover = %+v", p.Turnover)
	}
}

func TestFlexFloat_GarbageStaysUnset(t *testing.T) {
	for _, raw := range []string{`"n/a"`, `""`, `{}`, `"12,3,4"`} {
		var f FlexFloat
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if f.Set {
			t.Fatalf("%s parsed as %v, want unset", raw, f.Value)
		}
	}
}

func TestFlexBool_Variants(t *testing.T) {
	cases := []struct {
		raw   string
		value bool
		set   bool
	}{
		{`true`, true, true},
		{`false`, false, true},
		{`"TRUE"`, true, true},
		{`"no"`, false, true},
		{`1`, true, true},
		{`0`, false, true},
		{`null`, false, false},
		{`"maybe"`, false, false},
		{`42`, false, false},
	}
	for _, tc := range cases {
		var b FlexBool
		if err := json.Unmarshal([]byte(tc.raw), &b); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if b.Set != tc.set || b.Value != tc.value {
			t.Fatalf("%s = %+v, want {%v %v}", tc.raw, b, tc.value, tc.set)
		}
	}
}

func TestFlex_MarshalNullWhenUnset(t *testing.T) {
	p := Product{Ref: "X", Name: "x"}
	blob, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["available"] != nil || doc["price"] != nil {
		t.Fatalf("unset flex fields must serialize as null: %s", blob)
	}
}
